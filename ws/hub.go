package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/akinalp/mqvi-bans/pkg/logger"
)

var log = logger.For("ws")

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Hub.Run() goroutine'i register/unregister channel'larından select ile okur;
// broadcast'ler ise RLock altında doğrudan client.send'e yazar.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla bağlantısı olabilir).
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client

	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	log.WithField("user_id", client.userID).
		Debugf("client connected (connections for user: %d)", len(h.clients[client.userID]))
}

// removeClient, client'ı Hub'dan çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	log.WithField("user_id", client.userID).
		Debugf("client disconnected (remaining: %d)", len(clients))
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	h.BroadcastToUsers([]string{userID}, event)
}

// BroadcastToUsers, verilen kullanıcıların bağlantılarına aynı event'i gönderir.
// Seq bir kez atanır: aynı event'i alan herkes aynı seq'i görür.
func (h *Hub) BroadcastToUsers(userIDs []string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("op", event.Op).Error("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		for client := range h.clients[userID] {
			h.enqueue(client, data)
		}
	}
}

// sendToClient, tek bir client'a event yazar (heartbeat_ack, ready).
// Client Hub'dan çıkarılmışsa sessizce düşer; kapalı channel'a yazılmaz.
func (h *Hub) sendToClient(client *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("op", event.Op).Error("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[client.userID][client] {
		h.enqueue(client, data)
	}
}

// enqueue, RLock altında çağrılır. Buffer dolu → client yavaş, kopar.
func (h *Hub) enqueue(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		log.WithField("user_id", client.userID).Warn("send buffer full, dropping connection")
		go func(c *Client) { h.unregister <- c }(client)
	}
}

// IsOnline, kullanıcının en az bir açık bağlantısı var mı?
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Info("hub shut down, all connections closed")
}
