package jagriti

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	name    string
	payload RawPayload
	err     error
	calls   *[]string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Probe(ctx context.Context, op Operation) (RawPayload, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name)
	}
	if s.err != nil {
		return RawPayload{}, s.err
	}
	return s.payload, nil
}

func statesPayload(rows ...[]string) RawPayload {
	payload := RawPayload{Kind: PayloadRows}
	for _, r := range rows {
		payload.Rows = append(payload.Rows, RawRow{Cells: r})
	}
	return payload
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	var calls []string
	chain := NewChain(
		&stubStrategy{name: "a", payload: statesPayload([]string{"11", "KARNATAKA"}), calls: &calls},
		&stubStrategy{name: "b", payload: statesPayload([]string{"99", "NEVER"}), calls: &calls},
	)

	states, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, "11", states[0].ID)
	require.Equal(t, []string{"a"}, calls)
}

func TestChainTriesTiersInOrder(t *testing.T) {
	var calls []string
	chain := NewChain(
		&stubStrategy{name: "a", err: ErrUnreachable, calls: &calls},
		&stubStrategy{name: "b", err: ErrNotSupported, calls: &calls},
		&stubStrategy{name: "c", payload: statesPayload([]string{"22", "KERALA"}), calls: &calls},
	)

	states, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestChainEmptyTierFallsThrough(t *testing.T) {
	var calls []string
	chain := NewChain(
		&stubStrategy{name: "a", err: ErrEmpty, calls: &calls},
		&stubStrategy{name: "b", payload: statesPayload([]string{"22", "KERALA"}), calls: &calls},
	)

	states, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, []string{"a", "b"}, calls)
}

func TestChainAllEmptyIsEmptySuccess(t *testing.T) {
	chain := NewChain(
		&stubStrategy{name: "a", err: ErrEmpty},
		&stubStrategy{name: "b", err: ErrEmpty},
	)

	states, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	require.NoError(t, err)
	require.NotNil(t, states)
	require.Empty(t, states)
}

func TestChainExhausted(t *testing.T) {
	chain := NewChain(
		&stubStrategy{name: "a", err: ErrUnreachable},
		&stubStrategy{name: "b", err: ErrNotSupported},
	)

	_, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Failures, 2)
	require.Equal(t, "a", exhausted.Failures[0].Strategy)
	require.ErrorIs(t, exhausted.Failures[0].Err, ErrUnreachable)
	require.Equal(t, "b", exhausted.Failures[1].Strategy)
}

func TestChainMalformedPayloadFallsThrough(t *testing.T) {
	chain := NewChain(
		&stubStrategy{name: "a", payload: RawPayload{Kind: PayloadJSON, Body: []byte("{not json")}},
		&stubStrategy{name: "b", payload: statesPayload([]string{"22", "KERALA"})},
	)

	states, err := Run(context.Background(), chain, ListStatesOp(), NormalizeStates)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, "KERALA", states[0].CanonicalName)
}

func TestChainHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(
		&stubStrategy{name: "a", payload: statesPayload([]string{"11", "KARNATAKA"})},
	)

	_, err := Run(ctx, chain, ListStatesOp(), NormalizeStates)
	require.True(t, errors.Is(err, context.Canceled))
}
