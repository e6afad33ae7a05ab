package service

import (
	"context"
	"sync"

	"galleria/pkg/dates"
	apperrors "galleria/pkg/errors"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

// ArtworkCounter and LocationCounter expose the collection totals; the
// exhibitions breakdown comes from ExhibitionCounter. All three are
// implemented by the domain repositories and injected here.
type ArtworkCounter interface {
	Count(ctx context.Context) (int64, error)
}

type LocationCounter interface {
	Count(ctx context.Context) (int64, error)
}

type ExhibitionCounter interface {
	Count(ctx context.Context, filter model.ExhibitionFilter) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCurrent(ctx context.Context, today dates.Date) (int64, error)
}

// Summary aggregates collection sizes and exhibition breakdowns for the
// stats endpoint.
type Summary struct {
	Artworks    int64 `json:"artworks"`
	Locations   int64 `json:"locations"`
	Exhibitions struct {
		Total     int64 `json:"total"`
		Scheduled int64 `json:"scheduled"`
		Active    int64 `json:"active"`
		Completed int64 `json:"completed"`
		Current   int64 `json:"current"`
	} `json:"exhibitions"`
}

type StatsService interface {
	Summary(ctx context.Context) (*Summary, error)
}

type statsService struct {
	artworks    ArtworkCounter
	locations   LocationCounter
	exhibitions ExhibitionCounter
	log         *logger.Logger
}

func NewStatsService(
	artworks ArtworkCounter,
	locations LocationCounter,
	exhibitions ExhibitionCounter,
	log *logger.Logger,
) StatsService {
	return &statsService{
		artworks:    artworks,
		locations:   locations,
		exhibitions: exhibitions,
		log:         log,
	}
}

func (s *statsService) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	var firstErr error
	var mu sync.Mutex
	var wg sync.WaitGroup

	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		defer wg.Done()
		n, err := fn(ctx)
		if err != nil {
			recordErr(err)
			return
		}
		*dst = n
	}

	today := dates.Today()

	wg.Add(6)
	go count(&summary.Artworks, s.artworks.Count)
	go count(&summary.Locations, s.locations.Count)
	go count(&summary.Exhibitions.Total, func(ctx context.Context) (int64, error) {
		return s.exhibitions.Count(ctx, model.ExhibitionFilter{})
	})
	go count(&summary.Exhibitions.Scheduled, func(ctx context.Context) (int64, error) {
		return s.exhibitions.CountByStatus(ctx, model.StatusScheduled)
	})
	go count(&summary.Exhibitions.Active, func(ctx context.Context) (int64, error) {
		return s.exhibitions.CountByStatus(ctx, model.StatusActive)
	})
	go count(&summary.Exhibitions.Current, func(ctx context.Context) (int64, error) {
		return s.exhibitions.CountCurrent(ctx, today)
	})
	wg.Wait()

	if firstErr != nil {
		s.log.Error("Failed to build stats summary", "error", firstErr)
		return nil, apperrors.Internal("Failed to build stats summary", firstErr)
	}

	// Completed is derivable; one fewer query under the same snapshot window.
	summary.Exhibitions.Completed = summary.Exhibitions.Total -
		summary.Exhibitions.Scheduled - summary.Exhibitions.Active

	return &summary, nil
}
