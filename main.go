// Package main, mqvi ban servisinin giriş noktasıdır.
//
// Wire-up sırası:
//  1. Config + logger
//  2. IP sealer (at-rest şifreleme anahtarı)
//  3. Database + migration'lar
//  4. Repository'ler
//  5. WebSocket Hub + (opsiyonel) MQTT relay → event publisher
//  6. Service'ler, rate limiter, handler'lar
//  7. Route'lar + CORS
//  8. HTTP server + graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/mqvi-bans/config"
	"github.com/akinalp/mqvi-bans/database"
	"github.com/akinalp/mqvi-bans/pkg/crypto"
	"github.com/akinalp/mqvi-bans/pkg/logger"
	"github.com/akinalp/mqvi-bans/pkg/mqttbus"
	"github.com/akinalp/mqvi-bans/pkg/ratelimit"
	"github.com/akinalp/mqvi-bans/ws"
)

func main() {
	log := logger.For("main")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		log.Fatalf("failed to configure logger: %v", err)
	}
	log.WithField("port", cfg.Server.Port).Info("config loaded")

	// ─── 2. IP sealer ───
	key, err := crypto.DeriveKey(cfg.Crypto.IPSealKey)
	if err != nil {
		log.Fatalf("invalid IP_SEAL_KEY: %v", err)
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		log.Fatalf("failed to create ip sealer: %v", err)
	}

	// ─── 3. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn, sealer)

	// ─── 5. Event publishing ───
	hub := ws.NewHub()
	go hub.Run()

	sinks := []ws.GuildPublisher{ws.NewHubPublisher(hub, repos.Guild)}
	var relay *mqttbus.Relay
	if cfg.MQTT.Enabled {
		relay, err = mqttbus.Connect(mqttbus.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      byte(cfg.MQTT.QoS),

			PublishTimeout: cfg.MQTT.PublishTimeout,
		})
		if err != nil {
			log.Fatalf("failed to connect to mqtt broker: %v", err)
		}
		defer relay.Close()
		sinks = append(sinks, ws.NewMQTTPublisher(relay, cfg.MQTT.TopicPrefix))
		log.WithField("broker", cfg.MQTT.Broker).Info("mqtt relay enabled")
	}
	events := ws.NewFanOut(sinks...)

	// ─── 6. Services + Handlers ───
	svcs := initServices(repos, events, cfg.JWT.Secret, cfg.Cache.ProfileTTL)

	banLimiter := ratelimit.NewActionRateLimiter(cfg.RateLimit.BanActions, cfg.RateLimit.BanWindow)
	defer banLimiter.Stop()

	ips, err := ratelimit.NewIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}

	h := initHandlers(svcs, hub, banLimiter, ips, cfg.Instance, cfg.Server.CORSOrigins)

	// ─── 7. Routes + CORS ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs, repos)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
	})

	// ─── 8. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler.Handler(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Info("shutting down...")

	// Önce WebSocket bağlantılarını kapat, sonra yeni request kabulünü durdur
	// ve mevcut request'lerin bitmesini bekle (5sn).
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
		return
	}

	log.Info("server stopped gracefully")
}
