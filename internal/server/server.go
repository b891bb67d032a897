// Package server serves the user administration form with visibility rules
// pre-rendered, the browser runtime, and a submission endpoint that clears
// values of hidden dependents.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formtoggle/internal/catalog"
	"github.com/goliatone/go-formtoggle/pkg/render"
	"github.com/goliatone/go-formtoggle/pkg/render/template"
	"github.com/goliatone/go-formtoggle/pkg/render/template/pongo"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
	"github.com/goliatone/go-formtoggle/pkg/visibility"
)

// Layouts select the row markup convention of the rendered form.
const (
	LayoutTabular = pongo.LayoutTabular
	LayoutGrouped = pongo.LayoutGrouped
)

// Options configure a Server.
type Options struct {
	Rules     []toggle.Rule
	Render    render.Options
	Templates fs.FS
	Assets    fs.FS
	Logger    *zap.Logger
}

// Server handles the admin routes.
type Server struct {
	rules     []toggle.Rule
	render    render.Options
	engine    template.TemplateRenderer
	evaluator visibility.Evaluator
	logger    *zap.Logger
	mux       *http.ServeMux
}

// New builds a server. Templates must contain usuario_form.tpl.
func New(opts Options) (*Server, error) {
	if opts.Templates == nil {
		return nil, errors.New("server: templates are required")
	}
	for _, rule := range opts.Rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("server: rule %q: %w", rule.Key(), err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine, err := pongo.New(pongo.WithFS(opts.Templates))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	renderOpts := opts.Render
	renderOpts.Logger = logger
	hiddenClass := renderOpts.HiddenClass
	if hiddenClass == "" {
		hiddenClass = toggle.DefaultHiddenClass
	}
	if err := engine.GlobalContext(map[string]any{"hidden_class": hiddenClass}); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		rules:     opts.Rules,
		render:    renderOpts,
		engine:    engine,
		evaluator: visibility.New(),
		logger:    logger.Named("server"),
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /usuarios/nuevo", s.handleForm)
	s.mux.HandleFunc("POST /usuarios", s.handleSubmit)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if opts.Assets != nil {
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(opts.Assets)))
	}
	return s, nil
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	layout := LayoutTabular
	if query.Get("layout") == LayoutGrouped {
		layout = LayoutGrouped
	}

	markup, err := s.engine.RenderTemplate("usuario_form", map[string]any{
		"title":          "Agregar usuario",
		"action":         "/usuarios",
		"layout":         layout,
		"roles":          catalog.Roles,
		"especialidades": catalog.Especialidades,
		"help":           sanitizeHelp(catalog.EspecialidadHelp),
		"values": map[string]any{
			"username":     query.Get("username"),
			"rol":          query.Get("rol"),
			"especialidad": query.Get("especialidad"),
		},
	})
	if err != nil {
		s.fail(w, "render template", err)
		return
	}

	out, report, err := render.Apply(r.Context(), markup, s.rules, s.render)
	if err != nil {
		s.fail(w, "apply rules", err)
		return
	}
	s.logger.Debug("form rendered", zap.Any("states", report.States), zap.Strings("missing", report.Missing))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprint(w, out); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

// SubmitResponse is returned by the submission endpoint.
type SubmitResponse struct {
	Values  map[string]any `json:"values"`
	Cleared []string       `json:"cleared"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	cleared, err := visibility.PruneForm(r.PostForm, s.rules, s.evaluator)
	if err != nil {
		s.fail(w, "prune submission", err)
		return
	}
	if cleared == nil {
		cleared = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SubmitResponse{
		Values:  visibility.FormValues(r.PostForm),
		Cleared: cleared,
	}); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
