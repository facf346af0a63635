// Package main: HTTP route registration.
//
// Middleware chain helper'ları:
//   - auth: JWT token doğrulaması
//   - authGuild: auth + guild üyelik kontrolü + yetki bağlamı (Authorization)
package main

import (
	"net/http"

	"github.com/akinalp/mqvi-bans/middleware"
)

// initRoutes, middleware chain'i kurar ve endpoint'leri mux'a bağlar.
//
// Route sıralama: "@me" literal segmenti {userId}'den daha spesifiktir;
// Go 1.22 ServeMux en spesifik pattern'ı seçer, yine de literal önce tanımlanır.
func initRoutes(mux *http.ServeMux, h *Handlers, svcs *Services, repos *Repositories) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(svcs.Auth, repos.User)
	guildMw := middleware.NewGuildMembershipMiddleware(repos.Guild)
	permMw := middleware.NewPermissionMiddleware(svcs.Permission)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	authGuild := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(guildMw.Require(permMw.Load(handler)))
	}

	// Health / instance info
	mux.HandleFunc("GET /api/ping", h.Ping.Ping)

	// Bans
	mux.Handle("GET /api/guilds/{guildId}/bans", authGuild(h.Ban.List))
	mux.Handle("PUT /api/guilds/{guildId}/bans/@me", authGuild(h.Ban.CreateSelf))
	mux.Handle("GET /api/guilds/{guildId}/bans/{userId}", authGuild(h.Ban.Get))
	mux.Handle("PUT /api/guilds/{guildId}/bans/{userId}", authGuild(h.Ban.Create))
	mux.Handle("DELETE /api/guilds/{guildId}/bans/{userId}", authGuild(h.Ban.Revoke))

	// Members: katılma üyelik gerektirmez (henüz üye değil)
	mux.Handle("PUT /api/guilds/{guildId}/members/@me", auth(h.Member.Join))

	// WebSocket: tarayıcılar upgrade'de header gönderemediği için token query'den gelir
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
