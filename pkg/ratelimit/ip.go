package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver, HTTP request'ten client IP adresini çıkarır.
//
// X-Forwarded-For ve X-Real-IP header'ları sadece bağlantı güvenilen bir
// proxy'den geliyorsa okunur; aksi halde herhangi bir client kendi ip'sini
// yazabilirdi. Güvenilen proxy yoksa her zaman RemoteAddr kullanılır.
//
// Öncelik sırası (güvenilen proxy arkasında):
// 1. X-Forwarded-For: sağdan sola, güvenilmeyen ilk adres
// 2. X-Real-IP
// 3. RemoteAddr
//
// Ban kaydındaki ip alanı bu resolver ile yakalanır.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver, IP veya CIDR listesinden resolver oluşturur.
// Boş liste geçerlidir: forwarding header'ları tamamen yok sayılır.
func NewIPResolver(trustedProxies []string) (*IPResolver, error) {
	r := &IPResolver{}
	for _, raw := range trustedProxies {
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", raw)
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

// ClientIP, request'in gerçek client IP'sini döner. nil resolver RemoteAddr döner.
func (r *IPResolver) ClientIP(req *http.Request) string {
	remote := remoteHost(req)
	if r == nil || !r.isTrusted(remote) {
		return remote
	}

	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !r.isTrusted(hop) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(req.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return remote
}

func (r *IPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range r.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
