// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package wsstatus broadcasts EstimatorStatus snapshots to any number
// of connected websocket clients, for live filter diagnostics.
package wsstatus

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aerolume/iekf-nav/internal/messages"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local development, no origin restriction
	},
}

// Server tracks connected clients and fans out Broadcast calls to
// each of them.
type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New returns an empty Server.
func New() *Server {
	return &Server{clients: make(map[*websocket.Conn]struct{})}
}

// HandleWS upgrades the HTTP connection and registers it for
// broadcasts until it disconnects.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsstatus: websocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Drain reads so the connection notices when the client goes away;
	// this server never expects inbound messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Broadcast sends one status snapshot to every connected client,
// dropping any client whose write fails.
func (s *Server) Broadcast(status messages.EstimatorStatus) {
	payload, err := json.Marshal(status)
	if err != nil {
		log.Printf("wsstatus: marshal error: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("wsstatus: write error: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
