package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
	"github.com/couchcryptid/asteroid-impact-web/internal/pipeline"
)

// FeedLoader builds the feed page model.
type FeedLoader interface {
	Load(ctx context.Context) domain.FeedView
}

// ImpactSimulator builds the map page model from its query.
type ImpactSimulator interface {
	Simulate(ctx context.Context, v url.Values) domain.ImpactView
}

// PageRenderer turns view models into HTML.
type PageRenderer interface {
	Feed(v domain.FeedView) ([]byte, error)
	Detail(v domain.DetailView) ([]byte, error)
	Impact(v domain.ImpactView) ([]byte, error)
}

// Page labels for the pages_rendered_total metric.
const (
	pageFeed   = "feed"
	pageDetail = "detail"
	pageImpact = "impact"
)

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	view := s.opts.Feed.Load(r.Context())
	s.writePage(w, pageFeed, view.State, view.Err, func() ([]byte, error) {
		return s.opts.Renderer.Feed(view)
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	view := pipeline.BuildDetailView(r.URL.Query(), s.opts.GeocodingEnabled)
	s.writePage(w, pageDetail, view.State, view.Err, func() ([]byte, error) {
		return s.opts.Renderer.Detail(view)
	})
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	view := s.opts.Impact.Simulate(r.Context(), r.URL.Query())
	s.writePage(w, pageImpact, view.State, view.Err, func() ([]byte, error) {
		return s.opts.Renderer.Impact(view)
	})
}

// writePage renders a view and writes it with the status its state maps to.
func (s *Server) writePage(w http.ResponseWriter, page string, state domain.ViewState, viewErr error, render func() ([]byte, error)) {
	body, err := render()
	if err != nil {
		s.logger.Error("render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.metrics.PagesRendered.WithLabelValues(page, string(state)).Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusFor(state, viewErr))
	_, _ = w.Write(body)
}

// statusFor maps a view state to an HTTP status: request problems are 400,
// upstream problems are 502.
func statusFor(state domain.ViewState, err error) int {
	if state != domain.StateUnavailable {
		return http.StatusOK
	}
	if domain.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
