// Package pipeline turns upstream data into page view models. Every failure
// becomes an explicit unavailable state on the view rather than an error the
// renderer has to interpret.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
)

// FeedSource returns the close approaches for one date.
type FeedSource interface {
	Feed(ctx context.Context, date string) ([]domain.AsteroidSummary, error)
}

// FeedPipeline loads today's feed and builds the feed page model.
type FeedPipeline struct {
	source FeedSource
	limit  int
	logger *slog.Logger
}

// NewFeedPipeline creates a FeedPipeline rendering at most limit cards.
func NewFeedPipeline(source FeedSource, limit int, logger *slog.Logger) *FeedPipeline {
	return &FeedPipeline{source: source, limit: limit, logger: logger}
}

// Load fetches today's feed. Fetch failures are logged and returned on the
// view in the unavailable state.
func (p *FeedPipeline) Load(ctx context.Context) domain.FeedView {
	date := domain.Today()
	asteroids, err := p.source.Feed(ctx, date)
	if err != nil {
		p.logger.Error("feed fetch failed", "date", date, "error", err)
		return domain.FeedView{
			State:   domain.StateUnavailable,
			Date:    date,
			Message: domain.Unavailable,
			Err:     err,
		}
	}
	view := BuildFeedView(date, asteroids, p.limit)
	p.logger.Debug("feed loaded", "date", date, "entries", len(asteroids), "cards", len(view.Cards))
	return view
}

// BuildFeedView renders the first limit asteroids as cards. An empty feed
// yields the empty state.
func BuildFeedView(date string, asteroids []domain.AsteroidSummary, limit int) domain.FeedView {
	n := min(len(asteroids), limit)
	if n <= 0 {
		return domain.FeedView{
			State:   domain.StateEmpty,
			Date:    date,
			Message: fmt.Sprintf("No asteroid data for %s", date),
			Err:     domain.ErrNoFeedData,
		}
	}

	cards := make([]domain.Card, n)
	for i, a := range asteroids[:n] {
		cards[i] = domain.Card{
			Index:             i,
			Name:              a.Name,
			CloseApproachDate: a.CloseApproachDate,
			Diameter:          domain.FormatFixed(a.DiameterMaxMeters),
			Velocity:          domain.FormatFixed(a.VelocityKMH),
			Distance:          domain.FormatFixed(a.MissDistanceAU),
			Hazard:            domain.HazardLabel(a.Hazardous),
			ImageStyle:        domain.ImageStyle(a.DiameterMaxMeters),
			DetailURL:         domain.NewDetailQuery(i, date, a).URL(),
		}
	}
	return domain.FeedView{State: domain.StateReady, Date: date, Cards: cards}
}
