package jagriti

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"jagriti-backend/lib/htmlutil"
)

// pages that have historically carried the advance-search form
var searchPagePaths = []string{
	"/advance-case-search",
	"/case-search",
	"/search",
}

// endpoints that have historically answered commission-dropdown
// refresh posts
var commissionFormPaths = []string{
	"/api/commissions",
	"/ajax/getCommissions",
	"/services/commissions",
}

const searchResultPath = "/advance-case-search-result"

// a dropdown with more options than this is taken for the state list
// when nothing matches by name
const stateDropdownMinOptions = 10

// a case results row must carry at least this many cells
const caseRowMinCells = 6

var stateNameRegex = regexp.MustCompile(`(?i)state`)
var commissionNameRegex = regexp.MustCompile(`(?i)commission`)

// FormScrape drives the portal's server-rendered HTML forms: it
// fetches pages, locates dropdowns and result tables by bounded
// structural heuristics, and extracts raw rows. The heuristics live
// here and nowhere else.
type FormScrape struct {
	client *Client
}

func NewFormScrape(client *Client) *FormScrape {
	return &FormScrape{client: client}
}

func (s *FormScrape) Name() string { return "form_scrape" }

func (s *FormScrape) Probe(ctx context.Context, op Operation) (RawPayload, error) {
	ctx, span := tracer.Start(ctx, "form_scrape:Probe")
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

func (s *FormScrape) probeStates(ctx context.Context) (RawPayload, error) {
	outcome := &probeOutcome{}

	for _, path := range searchPagePaths {
		res, err := s.client.Get(ctx, path, nil)
		if err != nil {
			slog.DebugContext(ctx, "search page fetch failed", "path", path, "err", err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			slog.DebugContext(ctx, "search page is not parsable html", "path", path, "err", err)
			continue
		}
		outcome.reachedEmpty = true

		rows := extractDropdown(doc, stateNameRegex, stateDropdownMinOptions)
		if len(rows) > 0 {
			slog.InfoContext(ctx, "extracted states from search page",
				"path", path, "count", len(rows))
			return RawPayload{Kind: PayloadRows, Rows: rows}, nil
		}
	}

	return RawPayload{}, outcome.conclude()
}

func (s *FormScrape) probeCommissions(ctx context.Context, stateID string) (RawPayload, error) {
	outcome := &probeOutcome{}

	form := url.Values{}
	form.Set("state_id", stateID)
	form.Set("state", stateID)

	for _, path := range commissionFormPaths {
		res, err := s.client.PostForm(ctx, path, form)
		if err != nil {
			slog.DebugContext(ctx, "commission form post failed", "path", path, "err", err)
			continue
		}
		// JSON answers belong to the direct-api tier
		if res.IsJSON() {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			continue
		}
		outcome.reachedEmpty = true

		rows := extractDropdown(doc, commissionNameRegex, 0)
		if len(rows) > 0 {
			return RawPayload{Kind: PayloadRows, Rows: rows}, nil
		}
	}

	return RawPayload{}, outcome.conclude()
}

func (s *FormScrape) probeSearch(ctx context.Context, query *SearchQuery) (RawPayload, error) {
	if query == nil {
		return RawPayload{}, fmt.Errorf("%w: search operation carries no query", ErrNotSupported)
	}

	res, err := s.client.PostForm(ctx, searchResultPath, searchFormValues(*query))
	if err != nil {
		return RawPayload{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return RawPayload{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	rows := extractCaseRows(doc)
	if len(rows) == 0 {
		// the portal renders no table at all for zero matches
		return RawPayload{}, ErrEmpty
	}
	return RawPayload{Kind: PayloadRows, Rows: rows}, nil
}

// extractDropdown finds the <select> whose name/id/class matches
// nameRegex, falling back to any select with more than minOptions
// options, and returns its entries as [value, label] rows.
func extractDropdown(doc *goquery.Document, nameRegex *regexp.Regexp, minOptions int) []RawRow {
	var matched *goquery.Selection

	doc.Find("select").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		identity := sel.AttrOr("name", "") + " " + sel.AttrOr("id", "") + " " + sel.AttrOr("class", "")
		if nameRegex.MatchString(identity) {
			matched = sel
			return false
		}
		return true
	})

	if matched == nil && minOptions > 0 {
		doc.Find("select").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if sel.Find("option").Length() > minOptions {
				matched = sel
				return false
			}
			return true
		})
	}

	if matched == nil {
		return nil
	}

	options := htmlutil.SelectOptions(matched)
	rows := make([]RawRow, 0, len(options))
	for _, opt := range options {
		rows = append(rows, RawRow{Cells: []string{opt.Value, opt.Label}})
	}
	return rows
}

// extractCaseRows scans every table for body rows with enough cells
// to be case results; the first table yielding rows wins.
func extractCaseRows(doc *goquery.Document) []RawRow {
	var rows []RawRow
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		for _, cells := range htmlutil.TableRows(table, caseRowMinCells) {
			row := RawRow{Link: htmlutil.FirstAnchorHref(cells[0])}
			for _, cell := range cells {
				row.Cells = append(row.Cells, htmlutil.CellText(cell))
			}
			rows = append(rows, row)
		}
		return len(rows) == 0
	})
	return rows
}
