package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowIsIST(t *testing.T) {
	now := Now()
	require.Equal(t, Location, now.Location())

	_, offset := now.Zone()
	// IST is UTC+5:30 year-round, no DST
	require.Equal(t, int((5*time.Hour+30*time.Minute)/time.Second), offset)
}
