package web

import (
	"fmt"
	"log"
	"net/http"
)

type Server struct {
	Hub *Hub
}

func NewServer() *Server {
	return &Server{
		Hub: NewHub(),
	}
}

// Start serves the websocket feed, the scenario file (so viewers can draw the
// anchors and walls) and an optional static front-end. Blocks.
func (s *Server) Start(port int, distDir string, scenarioPath string) {
	go s.Hub.Run()

	mux := http.NewServeMux()

	// WebSocket
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.Hub, w, r)
	})

	// Scenario for the viewer
	if scenarioPath != "" {
		mux.HandleFunc("/scenario.xml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, scenarioPath)
		})
	}

	// Static Frontend
	if distDir != "" {
		fs := http.FileServer(http.Dir(distDir))
		mux.Handle("/", fs)
	}

	addr := fmt.Sprintf(":%d", port)
	log.Printf("HTTP Server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
