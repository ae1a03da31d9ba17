// Package jagriti scrapes the e-Jagriti consumer court portal. The
// portal has no stable public API: endpoints, response shapes and
// anti-automation behavior change without notice, so every piece of
// data is obtained through an ordered chain of access strategies
// (direct API probing, HTML form scraping, headless browser) behind a
// rate-limited, session-aware transport.
package jagriti

import (
	"fmt"
	"time"

	"jagriti-backend/lib/timezone"
)

// overridable in tests
var timeNow = timezone.Now

type State struct {
	ID            string `json:"id"`
	CanonicalName string `json:"name"`
	DisplayName   string `json:"display_name"`
}

type Commission struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	StateID     string `json:"state_id"`
}

type CaseRecord struct {
	CaseNumber          string `json:"case_number"`
	CaseStage           string `json:"case_stage"`
	FilingDate          string `json:"filing_date"`
	Complainant         string `json:"complainant"`
	ComplainantAdvocate string `json:"complainant_advocate,omitempty"`
	Respondent          string `json:"respondent"`
	RespondentAdvocate  string `json:"respondent_advocate,omitempty"`
	DocumentLink        string `json:"document_link,omitempty"`
}

type SearchType int

const (
	SearchCaseNumber SearchType = iota
	SearchComplainant
	SearchRespondent
	SearchComplainantAdvocate
	SearchRespondentAdvocate
	SearchIndustryType
	SearchJudge
)

// upstream advance-search form field per search type
var searchFormFields = map[SearchType]string{
	SearchCaseNumber:          "case_no",
	SearchComplainant:         "pet_name",
	SearchRespondent:          "res_name",
	SearchComplainantAdvocate: "pet_adv",
	SearchRespondentAdvocate:  "res_adv",
	SearchIndustryType:        "business_cat",
	SearchJudge:               "judge_name",
}

func (t SearchType) FormField() string {
	return searchFormFields[t]
}

func (t SearchType) String() string {
	switch t {
	case SearchCaseNumber:
		return "case_number"
	case SearchComplainant:
		return "complainant"
	case SearchRespondent:
		return "respondent"
	case SearchComplainantAdvocate:
		return "complainant_advocate"
	case SearchRespondentAdvocate:
		return "respondent_advocate"
	case SearchIndustryType:
		return "industry_type"
	case SearchJudge:
		return "judge"
	}
	return "unknown"
}

type CaseType int

const (
	DailyOrder CaseType = iota
	InterimOrder
	FinalOrder
)

func (t CaseType) String() string {
	switch t {
	case InterimOrder:
		return "INTERIM ORDER"
	case FinalOrder:
		return "FINAL ORDER"
	}
	return "DAILY ORDER"
}

type DateFilter int

const (
	FilterByFilingDate DateFilter = iota
	FilterByOrderDate
)

func (f DateFilter) String() string {
	if f == FilterByOrderDate {
		return "order_date"
	}
	return "case_filing_date"
}

type DateRange struct {
	From time.Time
	To   time.Time
}

type SearchQuery struct {
	SearchType   SearchType
	StateID      string
	CommissionID string
	SearchValue  string
	CaseType     CaseType
	DateFilter   DateFilter
	// nil means the default window: 2020-01-01 through the end of
	// the current year
	DateRange *DateRange
}

func (q SearchQuery) Validate() error {
	if q.StateID == "" {
		return fmt.Errorf("search query: state id is required")
	}
	if q.CommissionID == "" {
		return fmt.Errorf("search query: commission id is required")
	}
	if q.SearchValue == "" {
		return fmt.Errorf("search query: search value is required")
	}
	return nil
}

// CacheKey produces a stable key covering every field that affects
// upstream results.
func (q SearchQuery) CacheKey() string {
	from, to := q.EffectiveRange(timeNow())
	return fmt.Sprintf(
		"%s:%s:%s:%s:%s:%s:%s:%s",
		q.SearchType, q.StateID, q.CommissionID, q.SearchValue,
		q.CaseType, q.DateFilter,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
}

// EffectiveRange resolves the optional date range to the concrete
// window sent upstream.
func (q SearchQuery) EffectiveRange(now time.Time) (from, to time.Time) {
	if q.DateRange != nil {
		return q.DateRange.From, q.DateRange.To
	}
	from = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}
