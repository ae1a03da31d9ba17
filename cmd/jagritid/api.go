package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"jagriti-backend/lib/scrapers/jagriti"
	"jagriti-backend/services/casetracker"
)

// The HTTP surface mirrors the portal's domain: a catalog half
// (states, commissions) and a search half with one route per search
// field.

var searchRoutes = []struct {
	suffix     string
	searchType jagriti.SearchType
}{
	{"by-case-number", jagriti.SearchCaseNumber},
	{"by-complainant", jagriti.SearchComplainant},
	{"by-respondent", jagriti.SearchRespondent},
	{"by-complainant-advocate", jagriti.SearchComplainantAdvocate},
	{"by-respondent-advocate", jagriti.SearchRespondentAdvocate},
	{"by-industry-type", jagriti.SearchIndustryType},
	{"by-judge", jagriti.SearchJudge},
}

func registerRoutes(mux *http.ServeMux, service *casetracker.Service) {
	mux.HandleFunc("GET /v1/states", func(w http.ResponseWriter, r *http.Request) {
		states, err := service.ListStates(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"states": states})
	})

	mux.HandleFunc("GET /v1/commissions/{state}", func(w http.ResponseWriter, r *http.Request) {
		state, err := service.ResolveState(r.Context(), r.PathValue("state"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		commissions, err := service.ListCommissions(r.Context(), state.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"state":       state,
			"commissions": commissions,
		})
	})

	for _, route := range searchRoutes {
		searchType := route.searchType
		pattern := "POST /v1/cases/" + route.suffix
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			handleSearch(w, r, service, searchType)
		})
	}
}

type searchRequest struct {
	State       string `json:"state"`
	Commission  string `json:"commission"`
	SearchValue string `json:"search_value"`
	CaseType    string `json:"case_type,omitempty"`
	DateFilter  string `json:"date_filter,omitempty"`
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
}

func (req searchRequest) toQuery(searchType jagriti.SearchType) (jagriti.SearchQuery, error) {
	query := jagriti.SearchQuery{
		SearchType:  searchType,
		SearchValue: req.SearchValue,
	}

	switch req.CaseType {
	case "", "daily_order":
		query.CaseType = jagriti.DailyOrder
	case "interim_order":
		query.CaseType = jagriti.InterimOrder
	case "final_order":
		query.CaseType = jagriti.FinalOrder
	default:
		return query, fmt.Errorf("unknown case_type %q", req.CaseType)
	}

	switch req.DateFilter {
	case "", "filing_date":
		query.DateFilter = jagriti.FilterByFilingDate
	case "order_date":
		query.DateFilter = jagriti.FilterByOrderDate
	default:
		return query, fmt.Errorf("unknown date_filter %q", req.DateFilter)
	}

	if req.FromDate != "" || req.ToDate != "" {
		if req.FromDate == "" || req.ToDate == "" {
			return query, fmt.Errorf("from_date and to_date must be given together")
		}
		from, err := time.Parse("2006-01-02", req.FromDate)
		if err != nil {
			return query, fmt.Errorf("invalid from_date: %w", err)
		}
		to, err := time.Parse("2006-01-02", req.ToDate)
		if err != nil {
			return query, fmt.Errorf("invalid to_date: %w", err)
		}
		if to.Before(from) {
			return query, fmt.Errorf("to_date is before from_date")
		}
		query.DateRange = &jagriti.DateRange{From: from, To: to}
	}

	return query, nil
}

func handleSearch(w http.ResponseWriter, r *http.Request, service *casetracker.Service, searchType jagriti.SearchType) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	if req.State == "" || req.Commission == "" || req.SearchValue == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("state, commission and search_value are required"))
		return
	}

	query, err := req.toQuery(searchType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cases, err := service.SearchCases(r.Context(), req.State, req.Commission, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(cases),
		"cases": cases,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var stateNotFound *casetracker.StateNotFoundError
	var commissionNotFound *casetracker.CommissionNotFoundError
	var exhausted *jagriti.ExhaustedError
	var upstream *jagriti.UpstreamError

	switch {
	case errors.As(err, &stateNotFound), errors.As(err, &commissionNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, jagriti.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody(err.Error()))
	case errors.Is(err, jagriti.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, errorBody(err.Error()))
	case errors.As(err, &exhausted), errors.As(err, &upstream):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func errorBody(message string) map[string]any {
	return map[string]any{"error": message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
