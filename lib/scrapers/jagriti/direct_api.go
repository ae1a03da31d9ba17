package jagriti

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/codes"
)

// candidate endpoints, in probe order. the portal has shipped several
// API generations; none is documented, so every plausible path is
// tried until one answers with data.
var stateEndpoints = []string{
	"/api/states",
	"/api/master/states",
	"/api/v1/states",
	"/api/public/states",
	"/api/master/state-list",
	"/api/dropdown/states",
	"/services/states",
	"/rest/states",
}

var commissionEndpoints = []struct {
	path     string
	stateKey string
}{
	{"/api/commissions", "state_id"},
	{"/api/v1/commissions", "stateId"},
	{"/api/public/commissions", "state"},
	{"/api/dropdown/commissions", "state_code"},
}

var searchEndpoints = []string{
	"/advance-search",
	"/case-search",
	"/search-cases",
}

const statesGraphQLQuery = `{"query": "{ states { id name displayName } }"}`

// DirectAPI probes the portal's undocumented JSON endpoints. It is
// the cheapest tier: one GET/POST per candidate path, first non-empty
// JSON response wins.
type DirectAPI struct {
	client *Client
}

func NewDirectAPI(client *Client) *DirectAPI {
	return &DirectAPI{client: client}
}

func (s *DirectAPI) Name() string { return "direct_api" }

func (s *DirectAPI) Probe(ctx context.Context, op Operation) (RawPayload, error) {
	ctx, span := tracer.Start(ctx, "direct_api:Probe")
	defer span.End()

	var payload RawPayload
	var err error
	switch op.Kind {
	case OpListStates:
		payload, err = s.probeStates(ctx)
	case OpListCommissions:
		payload, err = s.probeCommissions(ctx, op.StateID)
	case OpSearchCases:
		payload, err = s.probeSearch(ctx, op.Query)
	default:
		return RawPayload{}, ErrNotSupported
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return payload, err
}

// result of trying a list of candidates: reachedEmpty distinguishes
// "every path errored" from "some path answered but had no data"
type probeOutcome struct {
	reachedEmpty bool
}

func (o *probeOutcome) conclude() error {
	if o.reachedEmpty {
		return ErrEmpty
	}
	return ErrUnreachable
}

func (s *DirectAPI) probeStates(ctx context.Context) (RawPayload, error) {
	outcome := &probeOutcome{}

	for _, endpoint := range stateEndpoints {
		res, err := s.client.Get(ctx, endpoint, nil)
		if err != nil {
			slog.DebugContext(ctx, "state endpoint failed", "endpoint", endpoint, "err", err)
			continue
		}
		if payload, ok := acceptJSON(res, outcome); ok {
			slog.InfoContext(ctx, "found states via direct api", "endpoint", endpoint)
			return payload, nil
		}
	}

	// some deployments only answer over graphql
	res, err := s.client.PostJSON(ctx, "/graphql", statesGraphQLQuery)
	if err == nil {
		if payload, ok := acceptJSON(res, outcome); ok {
			slog.InfoContext(ctx, "found states via graphql")
			return payload, nil
		}
	}

	return RawPayload{}, outcome.conclude()
}

func (s *DirectAPI) probeCommissions(ctx context.Context, stateID string) (RawPayload, error) {
	outcome := &probeOutcome{}

	for _, endpoint := range commissionEndpoints {
		params := url.Values{}
		params.Set(endpoint.stateKey, stateID)

		res, err := s.client.Get(ctx, endpoint.path, params)
		if err != nil {
			slog.DebugContext(ctx, "commission endpoint failed", "endpoint", endpoint.path, "err", err)
			continue
		}
		if payload, ok := acceptJSON(res, outcome); ok {
			slog.InfoContext(ctx, "found commissions via direct api",
				"endpoint", endpoint.path, "state_id", stateID)
			return payload, nil
		}
	}

	return RawPayload{}, outcome.conclude()
}

func (s *DirectAPI) probeSearch(ctx context.Context, query *SearchQuery) (RawPayload, error) {
	if query == nil {
		return RawPayload{}, fmt.Errorf("%w: search operation carries no query", ErrNotSupported)
	}
	outcome := &probeOutcome{}
	form := searchFormValues(*query)

	for _, endpoint := range searchEndpoints {
		res, err := s.client.PostForm(ctx, endpoint, form)
		if err != nil {
			slog.DebugContext(ctx, "search endpoint failed", "endpoint", endpoint, "err", err)
			continue
		}
		// HTML answers belong to the form-scrape tier
		if !res.IsJSON() {
			continue
		}
		if payload, ok := acceptJSON(res, outcome); ok {
			slog.InfoContext(ctx, "found cases via direct api", "endpoint", endpoint)
			return payload, nil
		}
	}

	return RawPayload{}, outcome.conclude()
}

// acceptJSON registers the response against the outcome and returns a
// payload when the body is JSON that actually contains data.
func acceptJSON(res *RawResponse, outcome *probeOutcome) (RawPayload, bool) {
	if !res.IsJSON() {
		return RawPayload{}, false
	}
	if !jsonHasData(res.Body) {
		outcome.reachedEmpty = true
		return RawPayload{}, false
	}
	return RawPayload{Kind: PayloadJSON, Body: res.Body}, true
}

// jsonHasData reports whether a JSON body holds at least one record,
// looking through the wrapper shapes the portal has used: a bare
// list, or an object with a "data", "cases" or "states" list.
func jsonHasData(body []byte) bool {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return false
	}
	return containerHasData(decoded)
}

func containerHasData(decoded any) bool {
	switch v := decoded.(type) {
	case []any:
		return len(v) > 0
	case map[string]any:
		for _, key := range []string{"data", "cases", "states", "commissions"} {
			if inner, ok := v[key]; ok {
				return containerHasData(inner)
			}
		}
		return false
	}
	return false
}

// searchFormValues maps a query onto the portal's advance-search form
// fields.
func searchFormValues(query SearchQuery) url.Values {
	from, to := query.EffectiveRange(timeNow())

	form := url.Values{}
	form.Set("state_code", query.StateID)
	form.Set("dist_code", query.CommissionID)
	form.Set("court_code", "DCDRC")
	form.Set("case_type", query.CaseType.String())
	form.Set("date_type", query.DateFilter.String())
	form.Set("from_date", from.Format("02/01/2006"))
	form.Set("to_date", to.Format("02/01/2006"))
	form.Set(query.SearchType.FormField(), query.SearchValue)
	return form
}
