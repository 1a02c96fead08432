package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewFallbackSource()

	products, err := s.ListProducts(ctx, 50)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "299.99", products[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "variant-2", products[1].Variants[0].ID)

	limited, _ := s.ListProducts(ctx, 2)
	assert.Len(t, limited, 2)

	p, err := s.FindByHandle(ctx, "sport-leather-jacket")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "449.99", p.UnitPrice.StringFixed(2))

	missing, err := s.FindByHandle(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	c, err := s.FindCollection(ctx, "safety-gear", 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Safety Gear", c.Title)
	assert.Len(t, c.Products, 1)

	all, _ := s.ListCollections(ctx, 10)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Products, 3, "a limited lookup does not shrink the stored collection")
}

func TestFallbackSource_ResultsAreCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewFallbackSource()

	products, _ := s.ListProducts(ctx, 0)
	products[0].Title = "changed"

	again, _ := s.ListProducts(ctx, 0)
	assert.Equal(t, "Professional Racing Helmet", again[0].Title)
}

func TestPGMappingHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"helmet", "safety"}, splitTags(" helmet, ,safety "))
	assert.Empty(t, splitTags(""))
	assert.Equal(t, "Safety Gear", collectionTitle("safety-gear"))

	row := productRow{ID: "p1", Title: "Chain", Handle: "chain", AvailableForSale: true}
	p := row.toModel()
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "p1", p.Variants[0].ID)
	assert.Empty(t, p.Images)
}
