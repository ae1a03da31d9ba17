package jagriti

import (
	"context"
	"fmt"
)

type OperationKind int

const (
	OpListStates OperationKind = iota
	OpListCommissions
	OpSearchCases
)

func (k OperationKind) String() string {
	switch k {
	case OpListStates:
		return "list_states"
	case OpListCommissions:
		return "list_commissions"
	case OpSearchCases:
		return "search_cases"
	}
	return "unknown"
}

// Operation is one logical request intent against the portal.
type Operation struct {
	Kind    OperationKind
	StateID string
	Query   *SearchQuery
}

func ListStatesOp() Operation {
	return Operation{Kind: OpListStates}
}

func ListCommissionsOp(stateID string) Operation {
	return Operation{Kind: OpListCommissions, StateID: stateID}
}

func SearchOp(query SearchQuery) Operation {
	return Operation{Kind: OpSearchCases, Query: &query}
}

func (op Operation) String() string {
	switch op.Kind {
	case OpListCommissions:
		return fmt.Sprintf("%s(%s)", op.Kind, op.StateID)
	case OpSearchCases:
		if op.Query != nil {
			return fmt.Sprintf("%s(%s=%q)", op.Kind, op.Query.SearchType, op.Query.SearchValue)
		}
	}
	return op.Kind.String()
}

type PayloadKind int

const (
	// PayloadJSON carries raw JSON bytes in Body.
	PayloadJSON PayloadKind = iota
	// PayloadRows carries rows already extracted from HTML or a
	// rendered DOM.
	PayloadRows
)

// RawRow is one structural row extracted by a scraping tier: dropdown
// options come through as [value, label] pairs, case table rows as
// the cell texts in column order.
type RawRow struct {
	Cells []string
	Link  string
}

// RawPayload is the untyped result of one strategy probe. The
// normalizer converts it into canonical records.
type RawPayload struct {
	Kind PayloadKind
	Body []byte
	Rows []RawRow
}

// Strategy is one method of getting data out of the portal. A
// strategy holds no business data; caching happens above it.
//
// Probe fails with ErrNotSupported, ErrUnreachable or ErrEmpty (or a
// transport error), never with a fabricated empty success.
type Strategy interface {
	Name() string
	Probe(ctx context.Context, op Operation) (RawPayload, error)
}
