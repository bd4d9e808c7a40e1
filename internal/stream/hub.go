package stream

import (
	"encoding/json"
	"fmt"
	"log"
)

// Event is one named message on the notification stream. Data must be
// JSON-marshalable.
type Event struct {
	Name string
	Data any
}

type transport int

const (
	transportSSE transport = iota
	transportWS
)

type client struct {
	send chan []byte
	kind transport
}

// Hub fans stream events out to every connected SSE and websocket client.
// Register/unregister and delivery all run on the Run loop; clients that
// cannot drain their send buffer are dropped.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan Event
	register   chan *client
	unregister chan *client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			log.Printf("Stream client connected. Total clients: %d", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			log.Printf("Stream client disconnected. Total clients: %d", len(h.clients))

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				log.Printf("Error marshaling stream event %q: %v", ev.Name, err)
				continue
			}
			for c := range h.clients {
				var msg []byte
				switch c.kind {
				case transportSSE:
					msg = formatSSE(ev.Name, payload)
				case transportWS:
					msg = formatWS(ev.Name, payload)
				}
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Publish queues an event for delivery to all connected clients. It never
// blocks the caller; if the hub's buffer is full the event is dropped.
func (h *Hub) Publish(name string, data any) {
	select {
	case h.broadcast <- Event{Name: name, Data: data}:
	default:
		log.Printf("Stream hub buffer full, dropping event %q", name)
	}
}

func formatSSE(name string, payload []byte) []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", name, payload))
}

func formatWS(name string, payload []byte) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"data":%s}`, name, payload))
}
