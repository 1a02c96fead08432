package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "299,99 €", Format(decimal.RequireFromString("299.99"), "EUR"))
	assert.Equal(t, "89,90 $", Format(decimal.RequireFromString("89.9"), "usd"))
	assert.Equal(t, "5,00 €", Format(decimal.NewFromInt(5), ""))
	assert.Equal(t, "1,50 SEK", Format(decimal.RequireFromString("1.5"), "SEK"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	assert.True(t, Parse(" 449.99 ").Equal(decimal.RequireFromString("449.99")))
	assert.True(t, Parse("").IsZero())
	assert.True(t, Parse("abc").IsZero())
}

func TestLine(t *testing.T) {
	t.Parallel()

	assert.True(t, Line(decimal.NewFromInt(100), 3).Equal(decimal.NewFromInt(300)))
}
