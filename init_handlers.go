// Package main — Handler katmanı başlatma.
package main

import (
	"github.com/akinalp/mqvi-bans/config"
	"github.com/akinalp/mqvi-bans/handlers"
	"github.com/akinalp/mqvi-bans/pkg/ratelimit"
	"github.com/akinalp/mqvi-bans/ws"
)

// Handlers, HTTP handler instance'larını tutan container struct.
type Handlers struct {
	Ban    *handlers.BanHandler
	Member *handlers.MemberHandler
	Ping   *handlers.PingHandler
	WS     *ws.Handler
}

func initHandlers(
	svcs *Services,
	hub *ws.Hub,
	limiter *ratelimit.ActionRateLimiter,
	ips *ratelimit.IPResolver,
	instance config.InstanceConfig,
	allowedOrigins []string,
) *Handlers {
	return &Handlers{
		Ban:    handlers.NewBanHandler(svcs.Ban, limiter, ips),
		Member: handlers.NewMemberHandler(svcs.Membership),
		Ping:   handlers.NewPingHandler(instance),
		WS:     ws.NewHandler(hub, svcs.Auth, allowedOrigins),
	}
}
