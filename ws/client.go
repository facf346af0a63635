package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: client → server sadece heartbeat gönderir; küçük tutulur.
	maxMessageSize = 1024

	// sendBufferSize: buffer doluysa client yavaş sayılır ve düşürülür.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine: ReadPump (heartbeat okur) ve WritePump
// (Hub'dan gelen event'leri yazar). gorilla/websocket aynı anda bir okuyucu
// ve bir yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// ReadPump, bağlantı kapanana kadar client mesajlarını okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).WithField("user_id", c.userID).Warn("failed to set read deadline")
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("user_id", c.userID).Info("unexpected close")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.WithField("user_id", c.userID).Debugf("invalid message: %v", err)
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).WithField("user_id", c.userID).Warn("failed to set read deadline")
			return
		}
		c.hub.sendToClient(c, Event{Op: OpHeartbeatAck})

	default:
		log.WithField("user_id", c.userID).Debugf("unknown op: %s", event.Op)
	}
}

// WritePump, send channel'ındaki mesajları bağlantıya yazar.
// Tek yazıcı bu goroutine olduğu için ek kilit gerekmez.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// Channel kapatıldı: Hub client'ı çıkardı
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
}
