package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/akinalp/mqvi-bans/models"
)

// TokenValidator, WebSocket handler'ın JWT doğrulaması için kullandığı interface.
// services paketine bağımlılık kurmamak için burada tanımlanır (ws ← services döngüsü).
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	upgrader       websocket.Upgrader
}

// NewHandler, constructor. allowedOrigins boşsa tüm origin'lere izin verilir.
func NewHandler(hub *Hub, tokenValidator TokenValidator, allowedOrigins []string) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 || origins["*"] {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcılar WS upgrade'inde header gönderemediği için token query parameter'dan gelir:
//
//	ws://server/ws?token=JWT_TOKEN
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Warn("upgrade failed")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	// ready, client Hub'a eklenmeden buffer'a konur: ilk event her zaman ready'dir.
	if ready, err := json.Marshal(Event{Op: OpReady, Data: ReadyData{UserID: claims.UserID}}); err == nil {
		client.send <- ready
	}
	h.hub.register <- client

	go client.WritePump()
	client.ReadPump() // bağlantı kapanana kadar bloklar
}
