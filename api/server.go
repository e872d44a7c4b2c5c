package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/matt-g-everett/cardtx/config"
	"github.com/matt-g-everett/cardtx/reveal"
	"github.com/matt-g-everett/cardtx/stream"
)

const maxProgressBody = 1 << 10

// Api serves sequence state over HTTP and the static client.
type Api struct {
	cfg        config.HTTP
	controller *stream.Controller
	log        *slog.Logger
}

// NewApi creates an Api backed by controller.
func NewApi(cfg config.HTTP, controller *stream.Controller, log *slog.Logger) *Api {
	if log == nil {
		log = slog.Default()
	}
	return &Api{cfg: cfg, controller: controller, log: log.With("component", "api")}
}

type sequenceInfo struct {
	Name            string  `json:"name"`
	Handle          string  `json:"handle"`
	Cards           int     `json:"cards"`
	SegmentDuration float64 `json:"segmentDuration"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sequences", a.listSequences)
	mux.HandleFunc("GET /api/sequences/{name}", a.getFrame)
	mux.HandleFunc("POST /api/sequences/{name}/progress", a.postProgress)
	if a.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.cfg.StaticDir)))
	}
	return mux
}

// Serve listens until ctx is cancelled.
func (a *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *Api) listSequences(w http.ResponseWriter, r *http.Request) {
	names := a.controller.Names()
	infos := make([]sequenceInfo, 0, len(names))
	for _, name := range names {
		s, ok := a.controller.Lookup(name)
		if !ok {
			continue
		}
		h, _ := a.controller.Handle(name)
		n := s.Len()
		infos = append(infos, sequenceInfo{
			Name:            name,
			Handle:          h.String(),
			Cards:           n,
			SegmentDuration: reveal.SegmentDuration(n),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (a *Api) getFrame(w http.ResponseWriter, r *http.Request) {
	s, ok := a.controller.Lookup(r.PathValue("name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: stream.ErrUnknownSequence.Error()})
		return
	}

	raw := r.URL.Query().Get("progress")
	if raw == "" {
		if last := s.Last(); last != nil {
			writeJSON(w, http.StatusOK, last)
			return
		}
		raw = "0"
	}
	p, err := stream.ParseProgress([]byte(raw))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.Frame(p))
}

func (a *Api) postProgress(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxProgressBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	p, err := stream.ParseProgress(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := a.controller.Push(r.Context(), name, p); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, stream.ErrUnknownSequence):
			status = http.StatusNotFound
		case errors.Is(err, stream.ErrDestroyed):
			status = http.StatusGone
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	a.log.Debug("progress accepted", "sequence", name, "progress", p)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
