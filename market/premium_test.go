package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePremium(t *testing.T) {
	t.Parallel()

	p, err := ParsePremium("1.25")
	require.NoError(t, err)
	assert.True(t, p.Priced)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("1.25")))

	for _, s := range []string{"", "0", "0.0"} {
		p, err := ParsePremium(s)
		require.NoError(t, err)
		assert.False(t, p.Priced, s)
		assert.True(t, p.Amount.IsZero(), s)
	}

	_, err = ParsePremium("abc")
	assert.Error(t, err)
}

func TestPremiumString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Unpriced().String())
	assert.Equal(t, "0.42", Priced(decimal.RequireFromString("0.42")).String())
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	s, err := ParseSide("CALL")
	require.NoError(t, err)
	assert.Equal(t, Call, s)

	s, err = ParseSide("p")
	require.NoError(t, err)
	assert.Equal(t, Put, s)

	_, err = ParseSide("straddle")
	assert.Error(t, err)
}
