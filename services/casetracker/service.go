// Package casetracker is the resolution and search layer on top of
// the e-Jagriti scraper: it resolves human-entered state and
// commission names against the live catalog and runs case searches,
// caching every upstream answer it can.
package casetracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"jagriti-backend/lib/cachestore"
	"jagriti-backend/lib/scrapers/jagriti"
)

var tracer = otel.Tracer("services/casetracker")

const (
	statesNamespace      = "states"
	commissionsNamespace = "commissions"
	searchNamespace      = "search"
)

type Options struct {
	// how long catalog and search answers stay fresh
	StatesTTL      time.Duration `json:"states_ttl"`
	CommissionsTTL time.Duration `json:"commissions_ttl"`
	SearchTTL      time.Duration `json:"search_ttl"`

	// run a headless browser as the last catalog tier
	EnableBrowser bool `json:"enable_browser"`
	// serve the compiled-in state list when every live tier fails;
	// off by default so degraded data is an explicit choice
	StaticStateFallback bool `json:"static_state_fallback"`

	Browser jagriti.BrowserOptions `json:"browser"`
}

func (o Options) withDefaults() Options {
	if o.StatesTTL <= 0 {
		o.StatesTTL = 6 * time.Hour
	}
	if o.CommissionsTTL <= 0 {
		o.CommissionsTTL = time.Hour
	}
	if o.SearchTTL <= 0 {
		o.SearchTTL = 5 * time.Minute
	}
	return o
}

type Service struct {
	client *jagriti.Client
	cache  *cachestore.Store
	opts   Options

	catalogChain *jagriti.Chain
	searchChain  *jagriti.Chain
}

func NewService(client *jagriti.Client, opts Options) *Service {
	opts = opts.withDefaults()

	catalogTiers := []jagriti.Strategy{
		jagriti.NewDirectAPI(client),
		jagriti.NewFormScrape(client),
	}
	if opts.EnableBrowser {
		catalogTiers = append(catalogTiers, jagriti.NewBrowser(client.BaseURL().String(), opts.Browser))
	}
	if opts.StaticStateFallback {
		catalogTiers = append(catalogTiers, jagriti.NewStaticStates())
	}

	// the browser tier cannot submit searches, so the search chain
	// stops at form scraping
	searchTiers := []jagriti.Strategy{
		jagriti.NewDirectAPI(client),
		jagriti.NewFormScrape(client),
	}

	return &Service{
		client:       client,
		cache:        cachestore.New(),
		opts:         opts,
		catalogChain: jagriti.NewChain(catalogTiers...),
		searchChain:  jagriti.NewChain(searchTiers...),
	}
}

// ListStates returns the portal's state/UT catalog.
func (s *Service) ListStates(ctx context.Context) ([]jagriti.State, error) {
	ctx, span := tracer.Start(ctx, "casetracker:ListStates")
	defer span.End()

	if cached, ok := cachestore.Get[[]jagriti.State](s.cache, statesNamespace, "all"); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	states, err := jagriti.Run(ctx, s.catalogChain, jagriti.ListStatesOp(), jagriti.NormalizeStates)
	if err != nil {
		return nil, err
	}
	if len(states) > 0 {
		s.cache.Set(statesNamespace, "all", states, s.opts.StatesTTL)
	}
	slog.InfoContext(ctx, "listed states", "count", len(states))
	return states, nil
}

// ListCommissions returns the district commissions of one state.
func (s *Service) ListCommissions(ctx context.Context, stateID string) ([]jagriti.Commission, error) {
	ctx, span := tracer.Start(ctx, "casetracker:ListCommissions")
	defer span.End()
	span.SetAttributes(attribute.String("state_id", stateID))

	if stateID == "" {
		return nil, fmt.Errorf("list commissions: state id is required")
	}

	if cached, ok := cachestore.Get[[]jagriti.Commission](s.cache, commissionsNamespace, stateID); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	normalize := func(payload jagriti.RawPayload) ([]jagriti.Commission, error) {
		return jagriti.NormalizeCommissions(payload, stateID)
	}
	commissions, err := jagriti.Run(ctx, s.catalogChain, jagriti.ListCommissionsOp(stateID), normalize)
	if err != nil {
		return nil, err
	}
	if len(commissions) > 0 {
		s.cache.Set(commissionsNamespace, stateID, commissions, s.opts.CommissionsTTL)
	}
	slog.InfoContext(ctx, "listed commissions", "state_id", stateID, "count", len(commissions))
	return commissions, nil
}

// ResolveState finds the state matching a human-entered name.
func (s *Service) ResolveState(ctx context.Context, name string) (jagriti.State, error) {
	ctx, span := tracer.Start(ctx, "casetracker:ResolveState")
	defer span.End()

	states, err := s.ListStates(ctx)
	if err != nil {
		return jagriti.State{}, err
	}
	return matchState(states, name)
}

// ResolveCommission finds a commission by state name and commission
// name, both human-entered.
func (s *Service) ResolveCommission(ctx context.Context, stateName, commissionName string) (jagriti.Commission, error) {
	ctx, span := tracer.Start(ctx, "casetracker:ResolveCommission")
	defer span.End()

	state, err := s.ResolveState(ctx, stateName)
	if err != nil {
		return jagriti.Commission{}, err
	}
	commissions, err := s.ListCommissions(ctx, state.ID)
	if err != nil {
		return jagriti.Commission{}, err
	}
	return matchCommission(commissions, state, commissionName)
}

// SearchCases resolves the query's state and commission names and
// runs the search. Query.StateID/CommissionID may be set directly to
// skip resolution.
func (s *Service) SearchCases(ctx context.Context, stateName, commissionName string, query jagriti.SearchQuery) ([]jagriti.CaseRecord, error) {
	ctx, span := tracer.Start(ctx, "casetracker:SearchCases")
	defer span.End()
	span.SetAttributes(attribute.String("search_type", query.SearchType.String()))

	if query.StateID == "" || query.CommissionID == "" {
		commission, err := s.ResolveCommission(ctx, stateName, commissionName)
		if err != nil {
			return nil, err
		}
		query.StateID = commission.StateID
		query.CommissionID = commission.ID
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key := query.CacheKey()
	if cached, ok := cachestore.Get[[]jagriti.CaseRecord](s.cache, searchNamespace, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	normalize := func(payload jagriti.RawPayload) ([]jagriti.CaseRecord, error) {
		return jagriti.NormalizeCases(payload, s.client.BaseURL())
	}
	cases, err := jagriti.Run(ctx, s.searchChain, jagriti.SearchOp(query), normalize)
	if err != nil {
		return nil, err
	}
	if len(cases) > 0 {
		s.cache.Set(searchNamespace, key, cases, s.opts.SearchTTL)
	}
	slog.InfoContext(ctx, "searched cases",
		"search_type", query.SearchType.String(),
		"state_id", query.StateID,
		"commission_id", query.CommissionID,
		"count", len(cases))
	return cases, nil
}

// InvalidateCatalog drops cached states and commissions so the next
// call refetches.
func (s *Service) InvalidateCatalog() {
	s.cache.Purge(statesNamespace)
	s.cache.Purge(commissionsNamespace)
}
