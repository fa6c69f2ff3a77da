// Package server exposes the export history over HTTP and drives panel sessions over
// a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	figmatokens "github.com/kataras/figma-token-exporter"
	"github.com/kataras/figma-token-exporter/pkg/history"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":5000"

// maxBodySize bounds POST /api/collections bodies.
const maxBodySize = 10 << 20

// Options configures a Server.
type Options struct {
	// History backs the /api endpoints. Required.
	History history.Store
	// Session is the template for panel sessions opened on /ws. The websocket
	// endpoint is only mounted when Session.Source is set.
	Session figmatokens.Options
	Logger  *slog.Logger // nil = slog.Default()
}

// Server is the HTTP handler of the history API and the panel websocket.
type Server struct {
	router  *chi.Mux
	history history.Store
	session figmatokens.Options
	logger  *slog.Logger
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.History == nil {
		return nil, errors.New("history store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		history: opts.History,
		session: opts.Session,
		logger:  opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/collections", s.listCollections)
		r.Post("/collections", s.createCollection)
		r.Get("/exports", s.listExports)
		r.NotFound(apiNotFound)
		r.MethodNotAllowed(apiNotFound)
	})
	if opts.Session.Source != nil {
		r.Get("/ws", s.serveSession)
	}

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{"API endpoint not found"})
}

func (s *Server) databaseError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("history store", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{"Database error"})
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	list, err := s.history.RecentCollections(r.Context(), history.DefaultCollectionsLimit)
	if err != nil {
		s.databaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"Invalid data"})
		return
	}
	var in history.CollectionInput
	if err := json.Unmarshal(body, &in); err != nil || in.Validate() != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"Invalid data"})
		return
	}

	col, err := s.history.SaveCollection(r.Context(), in)
	if err != nil {
		if errors.Is(err, history.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorResponse{"Invalid data"})
			return
		}
		s.databaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (s *Server) listExports(w http.ResponseWriter, r *http.Request) {
	list, err := s.history.RecentExports(r.Context(), history.DefaultExportsLimit)
	if err != nil {
		s.databaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
