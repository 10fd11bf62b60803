package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cliphist/internal/service"
)

// Server exposes the history service over a local HTTP API and a websocket
// change feed.
type Server struct {
	histService *service.Service
	srv         *http.Server
	hub         *Hub
	config      Config
}

type Config struct {
	Port int
}

func New(histService *service.Service, config Config) *Server {
	return &Server{
		histService: histService,
		hub:         newHub(),
		config:      config,
	}
}

// Hub returns the websocket hub so main can register it as a change handler.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Routes
	r.Get("/status", s.handleStatus)
	r.Get("/ws", s.serveWs)
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleRemove)
		r.Post("/history/{index}/copy", s.handleCopy)
		r.Post("/history/{index}/paste", s.handlePaste)
		r.Post("/snippets", s.handleSaveSnippet)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})

	return r
}

func (s *Server) Start() error {
	go s.hub.run()

	// Try different addresses if one fails
	addresses := []string{
		fmt.Sprintf("localhost:%d", s.config.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Port),
	}

	var lastErr error
	for _, addr := range addresses {
		s.srv = &http.Server{
			Addr:    addr,
			Handler: s.routes(),
		}

		log.Printf("Attempting to start HTTP server on %s", addr)

		serverErr := make(chan error, 1)
		go func() {
			if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
				serverErr <- fmt.Errorf("http server error on %s: %w", addr, err)
			}
		}()

		// Wait a moment to see if the server starts successfully
		select {
		case err := <-serverErr:
			lastErr = err
			log.Printf("Failed to start server on %s: %v", addr, err)
			continue
		case <-time.After(100 * time.Millisecond):
			log.Printf("Server started successfully on %s", addr)
			return nil
		}
	}

	return fmt.Errorf("failed to start server on any address: %v", lastErr)
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	// fuzzy defaults to the configured setting unless the caller overrides it
	var results []service.SearchResult
	if f := r.URL.Query().Get("fuzzy"); f != "" {
		fuzzy, err := strconv.ParseBool(f)
		if err != nil {
			http.Error(w, "invalid fuzzy flag", http.StatusBadRequest)
			return
		}
		results = s.histService.SearchMode(query, fuzzy)
	} else {
		results = s.histService.Search(query)
	}

	writeJSON(w, results)
}

// handleHistory is the browse endpoint: the empty query matches everything.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.histService.Search(""))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		http.Error(w, "missing text parameter", http.StatusBadRequest)
		return
	}

	s.histService.Remove(text)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	if err := s.histService.CopyAt(index); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	if err := s.histService.PasteAt(index); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSaveSnippet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	snippet, err := s.histService.SaveSnippet(req.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snippet)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.histService.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	// Pointers distinguish "absent" from zero values; only supplied fields
	// change.
	var req struct {
		HistoryLimit *int  `json:"history_limit"`
		Persist      *bool `json:"persistent"`
		Fuzzy        *bool `json:"fuzzy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid settings", http.StatusBadRequest)
		return
	}

	if req.HistoryLimit != nil {
		s.histService.SetHistoryLimit(*req.HistoryLimit)
	}
	if req.Persist != nil {
		s.histService.SetPersist(*req.Persist)
	}
	if req.Fuzzy != nil {
		s.histService.SetFuzzy(*req.Fuzzy)
	}

	writeJSON(w, s.histService.Settings())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
