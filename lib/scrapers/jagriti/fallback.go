package jagriti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Chain tries strategies strictly in configured order, sequentially,
// and returns the first tier's result that normalizes into at least
// one record. Ordering is fixed at construction; there is no adaptive
// reordering, since tier cost and fragility are curated by hand.
type Chain struct {
	strategies []Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Run probes the chain for one operation.
//
// The result distinguishes three outcomes:
//   - some tier yielded records: (records, nil)
//   - some tier reached well-formed portal data that was genuinely
//     empty: (empty non-nil slice, nil), meaning "no such data upstream"
//   - no tier even reached interpretable data: (nil, *ExhaustedError),
//     meaning "could not determine anything"
//
// An empty normalized result is never passed off as that tier's
// success; it fails the tier and the next one runs.
func Run[T any](
	ctx context.Context,
	chain *Chain,
	op Operation,
	normalize func(RawPayload) ([]T, error),
) ([]T, error) {
	ctx, span := tracer.Start(ctx, "chain:Run")
	defer span.End()
	span.SetAttributes(attribute.String("operation", op.String()))

	var failures []StrategyFailure
	reachedEmpty := false

	for _, strategy := range chain.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payload, err := strategy.Probe(ctx, op)
		if err != nil {
			if errors.Is(err, ErrEmpty) {
				reachedEmpty = true
			}
			failures = append(failures, StrategyFailure{Strategy: strategy.Name(), Err: err})
			slog.InfoContext(ctx, "strategy failed, falling through",
				"strategy", strategy.Name(), "operation", op.String(), "err", err)
			continue
		}

		records, err := normalize(payload)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrParse, err)
			failures = append(failures, StrategyFailure{Strategy: strategy.Name(), Err: err})
			slog.WarnContext(ctx, "strategy payload did not normalize",
				"strategy", strategy.Name(), "operation", op.String(), "err", err)
			continue
		}
		if len(records) == 0 {
			reachedEmpty = true
			failures = append(failures, StrategyFailure{Strategy: strategy.Name(), Err: ErrEmpty})
			continue
		}

		slog.DebugContext(ctx, "strategy succeeded",
			"strategy", strategy.Name(), "operation", op.String(), "records", len(records))
		return records, nil
	}

	if reachedEmpty {
		// the portal answered; there is just nothing there
		return []T{}, nil
	}

	exhausted := &ExhaustedError{Operation: op.String(), Failures: failures}
	span.SetStatus(codes.Error, exhausted.Error())
	return nil, exhausted
}
