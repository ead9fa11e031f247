package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, int64(1250), Cents(12.50))
	assert.Equal(t, int64(1), Cents(0.005))
	assert.Equal(t, int64(1890), Cents(18.90))
	assert.Equal(t, int64(0), Cents(0))
}

func TestFromCentsRoundTrip(t *testing.T) {
	assert.Equal(t, 12.5, FromCents(Cents(12.50)))
	assert.Equal(t, 0.01, FromCents(1))
}

func TestLineTotalCents(t *testing.T) {
	// 3 × 19,90 must be exact in cents, no float drift.
	assert.Equal(t, int64(5970), LineTotalCents(19.90, 3))
	assert.Equal(t, int64(2500), LineTotalCents(12.50, 2))
}

func TestSplitInstallmentsAbsorbsRemainderInFinal(t *testing.T) {
	parts := SplitInstallments(10000, 3)
	require.Len(t, parts, 3)
	assert.Equal(t, []int64{3333, 3333, 3334}, parts)

	var sum int64
	for _, p := range parts {
		sum += p
	}
	assert.Equal(t, int64(10000), sum)
}

func TestSplitInstallmentsExactDivision(t *testing.T) {
	assert.Equal(t, []int64{1250, 1250}, SplitInstallments(2500, 2))
}

func TestSplitInstallmentsInvalidCount(t *testing.T) {
	assert.Nil(t, SplitInstallments(1000, 0))
	assert.Nil(t, SplitInstallments(1000, -1))
}
