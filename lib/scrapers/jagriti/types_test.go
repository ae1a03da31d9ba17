package jagriti

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchQueryValidate(t *testing.T) {
	valid := SearchQuery{StateID: "11", CommissionID: "7", SearchValue: "kumar"}
	require.NoError(t, valid.Validate())

	for _, q := range []SearchQuery{
		{CommissionID: "7", SearchValue: "kumar"},
		{StateID: "11", SearchValue: "kumar"},
		{StateID: "11", CommissionID: "7"},
	} {
		require.Error(t, q.Validate())
	}
}

func TestSearchQueryEffectiveRangeDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	q := SearchQuery{}
	from, to := q.EffectiveRange(now)
	require.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), to)

	q.DateRange = &DateRange{
		From: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	from, to = q.EffectiveRange(now)
	require.Equal(t, q.DateRange.From, from)
	require.Equal(t, q.DateRange.To, to)
}

func TestSearchQueryCacheKeyCoversFields(t *testing.T) {
	base := SearchQuery{SearchType: SearchComplainant, StateID: "11", CommissionID: "7", SearchValue: "kumar"}
	require.Equal(t, base.CacheKey(), base.CacheKey())

	variants := []SearchQuery{base, base, base, base, base}
	variants[1].SearchValue = "singh"
	variants[2].CommissionID = "8"
	variants[3].CaseType = FinalOrder
	variants[4].DateFilter = FilterByOrderDate

	seen := map[string]bool{}
	for _, q := range variants {
		seen[q.CacheKey()] = true
	}
	require.Len(t, seen, len(variants))
}
