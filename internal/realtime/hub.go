// Package realtime streams run progress to observers: a NATS publisher for
// external consumers and a WebSocket hub for the optional serve mode.
package realtime

import (
	"encoding/json"
	"log"

	"bimcloud/internal/pipeline"
)

// Hub manages WebSocket clients and routes messages by run id.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// runID -> set of subscribed clients
	subscriptions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscribeMsg
	broadcast  chan broadcastMsg
}

type subscribeMsg struct {
	client *Client
	runID  string
}

type broadcastMsg struct {
	runID   string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscribeMsg),
		broadcast:     make(chan broadcastMsg, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("client registered (total: %d)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				// Remove from all subscriptions
				for runID, subs := range h.subscriptions {
					delete(subs, client)
					if len(subs) == 0 {
						delete(h.subscriptions, runID)
					}
				}
				log.Printf("client unregistered (total: %d)", len(h.clients))
			}

		case msg := <-h.subscribe:
			if _, ok := h.subscriptions[msg.runID]; !ok {
				h.subscriptions[msg.runID] = make(map[*Client]bool)
			}
			h.subscriptions[msg.runID][msg.client] = true
			log.Printf("client subscribed to run %s (subscribers: %d)", msg.runID, len(h.subscriptions[msg.runID]))

		case msg := <-h.broadcast:
			if subs, ok := h.subscriptions[msg.runID]; ok {
				for client := range subs {
					select {
					case client.send <- msg.payload:
					default:
						// Client buffer full, remove it
						close(client.send)
						delete(subs, client)
						delete(h.clients, client)
					}
				}
			}
		}
	}
}

// Feed returns a progress callback that wraps each event in the outgoing
// envelope and broadcasts it to the run's subscribers. Must not block: the
// broadcast channel is buffered and overflow drops the slow client, never
// the event source.
func (h *Hub) Feed() pipeline.ProgressFunc {
	return func(p pipeline.Progress) {
		payload, err := json.Marshal(p)
		if err != nil {
			log.Printf("hub: marshal progress: %v", err)
			return
		}
		envelope := outgoingMsg{
			Type:    "run.progress",
			RunID:   p.RunID,
			Payload: json.RawMessage(payload),
		}
		data, err := json.Marshal(envelope)
		if err != nil {
			log.Printf("hub: marshal envelope: %v", err)
			return
		}
		select {
		case h.broadcast <- broadcastMsg{runID: p.RunID, payload: data}:
		default:
			log.Printf("hub: broadcast buffer full, dropping progress event")
		}
	}
}
