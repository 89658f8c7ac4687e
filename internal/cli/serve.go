package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jruhland/assetscope/pkg/assetgraph"
	"github.com/jruhland/assetscope/pkg/layout"
	"github.com/jruhland/assetscope/pkg/render/dot"
	"github.com/jruhland/assetscope/pkg/source"
)

// serveCommand creates the serve command exposing the graph over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve graph, layout, and rendered views over HTTP",
		Long: `Serve the asset graph over HTTP.

Endpoints:
  GET /api/graph              graph document as JSON, filtered by ?query=
  GET /api/layout             computed layout as JSON; ?expanded=g1,g2 ?dir=lr
  GET /render.svg             SVG rendering; same parameters plus ?detailed=1
  GET /healthz                liveness probe`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphPath := ""
			if len(args) > 0 {
				graphPath = args[0]
			}
			return c.runServe(cmd.Context(), graphPath, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8487)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, graphPath, addr string) error {
	provider, err := c.newProvider(ctx, graphPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = c.Config.Serve.Addr
	}

	st := c.newStore(ctx)
	defer st.Close()

	srv := &server{
		provider: provider,
		engine:   layout.NewCached(&layout.Layered{Logger: c.Logger}, st, c.Logger),
		logger:   c.Logger,
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutCtx)
	}()

	c.Logger.Info("serving", "addr", addr)
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// server holds the HTTP handler dependencies.
type server struct {
	provider source.Provider
	engine   layout.Engine
	logger   *charmlog.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/render.svg", s.handleRender)
	return r
}

// requestLogger tags each request with a UUID and logs method, path,
// status, and duration.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *server) fetch(w http.ResponseWriter, r *http.Request) (*assetgraph.Graph, bool) {
	g, err := s.provider.Fetch(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		var qe *source.QueryError
		if errors.As(err, &qe) {
			s.writeError(w, http.StatusBadRequest, err)
		} else {
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	if err := g.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return g, true
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, assetgraph.FromGraph(g))
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}

	l, err := s.engine.Compute(r.Context(), g, expandedParam(r), layoutParams(r))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, l)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	g, ok := s.fetch(w, r)
	if !ok {
		return
	}

	dotSrc := dot.ToDOT(g, expandedParam(r), dot.Options{
		Direction: layoutParams(r).Direction,
		Detailed:  r.URL.Query().Get("detailed") == "1",
	})
	svg, err := dot.RenderSVG(r.Context(), dotSrc)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func expandedParam(r *http.Request) []string {
	raw := r.URL.Query().Get("expanded")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func layoutParams(r *http.Request) layout.Options {
	opts := layout.Options{}
	if r.URL.Query().Get("dir") == "lr" {
		opts.Direction = layout.DirectionLR
	}
	return opts
}
