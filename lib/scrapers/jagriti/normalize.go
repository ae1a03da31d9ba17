package jagriti

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// The normalizer turns strategy payloads into canonical records. It
// accepts the key-name variants the portal's API generations have
// used and drops source records missing mandatory fields instead of
// emitting half-built ones.

func NormalizeStates(payload RawPayload) ([]State, error) {
	switch payload.Kind {
	case PayloadRows:
		var states []State
		for _, row := range payload.Rows {
			if len(row.Cells) < 2 {
				continue
			}
			id := strings.TrimSpace(row.Cells[0])
			display := strings.TrimSpace(row.Cells[1])
			if id == "" || display == "" {
				continue
			}
			states = append(states, State{
				ID:            id,
				CanonicalName: strings.ToUpper(display),
				DisplayName:   display,
			})
		}
		return states, nil

	case PayloadJSON:
		items, err := decodeRecordList(payload.Body)
		if err != nil {
			return nil, err
		}
		var states []State
		for _, item := range items {
			id := stringField(item, "id", "stateId", "state_id", "code")
			name := stringField(item, "name", "stateName", "state_name", "text")
			display := stringField(item, "displayName", "display_name")
			if display == "" {
				display = name
			}
			if id == "" || display == "" {
				continue
			}
			if name == "" {
				name = display
			}
			states = append(states, State{
				ID:            id,
				CanonicalName: strings.ToUpper(name),
				DisplayName:   display,
			})
		}
		return states, nil
	}
	return nil, fmt.Errorf("%w: unknown payload kind %d", ErrParse, payload.Kind)
}

func NormalizeCommissions(payload RawPayload, stateID string) ([]Commission, error) {
	switch payload.Kind {
	case PayloadRows:
		var commissions []Commission
		for _, row := range payload.Rows {
			if len(row.Cells) < 2 {
				continue
			}
			id := strings.TrimSpace(row.Cells[0])
			display := strings.TrimSpace(row.Cells[1])
			if id == "" || display == "" {
				continue
			}
			commissions = append(commissions, Commission{
				ID:          id,
				DisplayName: display,
				StateID:     stateID,
			})
		}
		return commissions, nil

	case PayloadJSON:
		items, err := decodeRecordList(payload.Body)
		if err != nil {
			return nil, err
		}
		var commissions []Commission
		for _, item := range items {
			id := stringField(item, "id", "commissionId", "commission_id", "code")
			name := stringField(item, "name", "commissionName", "commission_name", "text", "displayName", "display_name")
			if id == "" || name == "" {
				continue
			}
			commissions = append(commissions, Commission{
				ID:          id,
				DisplayName: name,
				StateID:     stateID,
			})
		}
		return commissions, nil
	}
	return nil, fmt.Errorf("%w: unknown payload kind %d", ErrParse, payload.Kind)
}

func NormalizeCases(payload RawPayload, baseUrl *url.URL) ([]CaseRecord, error) {
	switch payload.Kind {
	case PayloadRows:
		var cases []CaseRecord
		for _, row := range payload.Rows {
			// cell-to-field mapping is fixed by column position
			if len(row.Cells) < caseRowMinCells {
				continue
			}
			record := CaseRecord{
				CaseNumber:          row.Cells[0],
				CaseStage:           row.Cells[1],
				FilingDate:          normalizeDate(row.Cells[2]),
				Complainant:         row.Cells[3],
				ComplainantAdvocate: row.Cells[4],
				Respondent:          row.Cells[5],
				DocumentLink:        resolveLink(baseUrl, row.Link),
			}
			if len(row.Cells) > 6 {
				record.RespondentAdvocate = row.Cells[6]
			}
			if record.mandatoryFieldsPresent() {
				cases = append(cases, record)
			}
		}
		return cases, nil

	case PayloadJSON:
		items, err := decodeRecordList(payload.Body)
		if err != nil {
			return nil, err
		}
		var cases []CaseRecord
		for _, item := range items {
			record := CaseRecord{
				CaseNumber:          stringField(item, "caseNumber", "case_number"),
				CaseStage:           stringField(item, "caseStage", "case_stage", "stage"),
				FilingDate:          normalizeDate(stringField(item, "filingDate", "filing_date")),
				Complainant:         stringField(item, "complainantName", "complainant"),
				ComplainantAdvocate: stringField(item, "complainantAdvocate", "complainant_advocate"),
				Respondent:          stringField(item, "respondentName", "respondent"),
				RespondentAdvocate:  stringField(item, "respondentAdvocate", "respondent_advocate"),
				DocumentLink:        resolveLink(baseUrl, stringField(item, "documentLink", "document_link")),
			}
			if record.mandatoryFieldsPresent() {
				cases = append(cases, record)
			}
		}
		return cases, nil
	}
	return nil, fmt.Errorf("%w: unknown payload kind %d", ErrParse, payload.Kind)
}

func (r CaseRecord) mandatoryFieldsPresent() bool {
	return r.CaseNumber != "" &&
		r.CaseStage != "" &&
		r.FilingDate != "" &&
		r.Complainant != "" &&
		r.Respondent != ""
}

// decodeRecordList unwraps the container shapes the portal has used
// and returns the record objects inside.
func decodeRecordList(body []byte) ([]map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	list := unwrapList(decoded)
	if list == nil {
		return nil, fmt.Errorf("%w: json payload holds no record list", ErrParse)
	}

	var items []map[string]any
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

func unwrapList(decoded any) []any {
	switch v := decoded.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"data", "cases", "states", "commissions"} {
			if inner, ok := v[key]; ok {
				if list := unwrapList(inner); list != nil {
					return list
				}
			}
		}
	}
	return nil
}

// stringField returns the first present, non-empty key, stringifying
// numeric ids.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// normalizeDate converts the portal's dd/mm/yyyy dates to ISO-8601.
// Already-ISO input passes through; anything unparsable is kept
// verbatim rather than dropped, since a malformed date alone doesn't
// invalidate a record a human can still read.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return t.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", raw); err == nil {
		return raw
	}
	return raw
}

func resolveLink(baseUrl *url.URL, href string) string {
	if href == "" {
		return ""
	}
	if baseUrl == nil {
		return href
	}
	resolved, err := baseUrl.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}
