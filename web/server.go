package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/glimmerlab/ornascene/engine"
	"github.com/glimmerlab/ornascene/gesture"
)

// Server wires the scene engine to its web surface: JSON API for the host
// page, a frame-broadcast websocket for the renderer, and ingest websockets
// for raw input and the external gesture detector.
type Server struct {
	engine *engine.Engine
	slot   *gesture.Slot
	hub    *Hub
}

// NewServer connects the engine's frame sink to a broadcast hub and starts
// the frame loop.
func NewServer(e *engine.Engine, slot *gesture.Slot) (*Server, error) {
	s := &Server{
		engine: e,
		slot:   slot,
		hub:    NewHub(),
	}
	e.SetSink(func(snap *engine.Snapshot) {
		data, err := json.Marshal(snap)
		if err != nil {
			log.Printf("[web] Failed to marshal frame: %v", err)
			return
		}
		s.hub.Broadcast(data)
	})
	if err := e.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Handler(webPath string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerScene)
	r.HandleFunc("/json/config", s.HandlerConfig)
	r.HandleFunc("/json/assembly/{value}", s.HandlerAssembly)
	r.HandleFunc("/json/snapshot", s.HandlerSnapshot)
	r.HandleFunc("/dump/scene.gltf", s.HandlerExportGLTF)
	r.HandleFunc("/ws/frames", s.hub.HandleFrames)
	r.HandleFunc("/ws/input", s.HandlerInputWS)
	r.HandleFunc("/ws/gesture", s.HandlerGestureWS)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	return handlers.LoggingHandler(os.Stdout, h)
}

// Shutdown drops every frame client and stops the frame loop.
func (s *Server) Shutdown() {
	s.hub.Close()
	s.engine.Stop()
}

// StartServer serves until the listener fails or the process receives
// SIGINT/SIGTERM; on a signal the http server drains in-flight requests,
// then the hub clients are dropped and the engine is stopped.
func StartServer(addr string, e *engine.Engine, slot *gesture.Slot, webPath string) error {
	s, err := NewServer(e, slot)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: addr, Handler: s.Handler(webPath)}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		log.Printf("[web] Caught %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[web] Shutdown: %v", err)
		}
	}()

	log.Printf("[web] Starting server %v", addr)
	err = srv.ListenAndServe()
	s.Shutdown()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
