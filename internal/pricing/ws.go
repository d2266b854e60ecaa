package pricing

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type priceMessage struct {
	Type      string `json:"type"`
	Date      string `json:"date"`
	Price     string `json:"price"`
	Timestamp int64  `json:"ts"`
}

// PriceWS streams the current posted price so the dashboard chart stays live
// without polling.
type PriceWS struct {
	origin   string
	store    *Store
	upgrader websocket.Upgrader
}

func NewPriceWS(origin string, store *Store) *PriceWS {
	return &PriceWS{
		origin:   origin,
		store:    store,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) }},
	}
}

func (h *PriceWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	if err := h.push(conn, r); err != nil {
		return
	}
	for {
		select {
		case <-ticker.C:
			if err := h.push(conn, r); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *PriceWS) push(conn *websocket.Conn, r *http.Request) error {
	price, err := h.store.CurrentPrice(r.Context())
	if err != nil {
		// Feed may be empty; keep the connection and retry on the next tick.
		return nil
	}
	now := time.Now().UTC()
	msg := priceMessage{
		Type:      "price",
		Date:      now.Format("2006-01-02"),
		Price:     price.String(),
		Timestamp: now.Unix(),
	}
	return conn.WriteJSON(msg)
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	return strings.EqualFold(r.Header.Get("Origin"), origin)
}
