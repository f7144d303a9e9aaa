package services

import (
	"context"

	"busops/internal/domain"
	"busops/internal/domain/models"
	"busops/internal/enrich"
	"busops/internal/lifecycle"
	"busops/internal/notify"
	"busops/internal/reports"
	"busops/internal/store"
)

// TripService adds lifecycle sweeps, enrichment and notifications to the
// trip collection.
type TripService struct {
	*Collection[models.Trip, *models.Trip]
	Lifecycle *lifecycle.Engine
	Notifier  *notify.Emitter
}

func NewTripService(st *store.Store, engine *lifecycle.Engine, notifier *notify.Emitter) *TripService {
	s := &TripService{
		Collection: &Collection[models.Trip, *models.Trip]{
			Name:  "trip",
			Store: st,
			Slice: func(d *models.Document) *[]models.Trip { return &d.Trips },
		},
		Lifecycle: engine,
		Notifier:  notifier,
	}
	s.Collection.AfterCreate = func(requestID string, doc *models.Document, t models.Trip) {
		if s.Notifier != nil {
			s.Notifier.TripCreated(requestID, doc, t)
		}
	}
	return s
}

type TripList struct {
	Trips   []enrich.TripView  `json:"trips"`
	Summary enrich.TripSummary `json:"summary"`
}

// ListEnriched sweeps stale statuses, then filters and enriches the trips
// of the resulting snapshot.
func (s *TripService) ListEnriched(ctx context.Context, f enrich.TripFilter) (*TripList, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := enrich.NewIndex(doc)
	views := enrich.EnrichTrips(idx, enrich.FilterTrips(idx, f))
	return &TripList{Trips: views, Summary: enrich.Summarize(views)}, nil
}

func (s *TripService) GetEnriched(ctx context.Context, id string) (*enrich.TripView, error) {
	doc, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := enrich.NewIndex(doc)
	t := idx.Trip(id)
	if t == nil {
		return nil, domain.NotFoundError{Resource: "trip", ID: id}
	}
	v := enrich.EnrichTrip(idx, *t)
	return &v, nil
}

func (s *TripService) snapshot(ctx context.Context) (*models.Document, error) {
	if s.Lifecycle != nil {
		if _, err := s.Lifecycle.Sweep(ctx); err != nil {
			return nil, err
		}
	}
	return s.Store.Read(ctx)
}

// Report sweeps, then builds a report over the current snapshot.
func (s *Services) Report(ctx context.Context, f reports.Filter) (*reports.Report, error) {
	if _, err := s.Lifecycle.Sweep(ctx); err != nil {
		return nil, err
	}
	doc, err := s.Store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return reports.Build(doc, f)
}

// Views returns an index over the current snapshot for the dependent
// entity list endpoints.
func (s *Services) Views(ctx context.Context) (*enrich.Index, error) {
	doc, err := s.Store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return enrich.NewIndex(doc), nil
}
