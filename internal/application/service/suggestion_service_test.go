package service

import (
	"context"
	"testing"

	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddNameSuggestion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	s := env.suggestions

	s.AddNameSuggestion(ctx, "  Zebra Perde ")
	s.AddNameSuggestion(ctx, "Abajur")
	s.AddNameSuggestion(ctx, "Zebra Perde")
	s.AddNameSuggestion(ctx, "   ")
	s.AddNameSuggestion(ctx, "zebra perde")

	names, err := s.NameSuggestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Abajur", "Zebra Perde", "zebra perde"}, names)

	descriptions, err := s.DescriptionSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, descriptions)
}

func TestRecordOrderFeedsBothLists(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.orders.CreateOrder(ctx, draft(env.customer(t, "Selin").ID,
		entity.ProductItem{Name: "Stor", Description: "Karartma", Quantity: d("1"), UnitPrice: d("10")},
		entity.ProductItem{Name: "Korniş", Quantity: d("1"), UnitPrice: d("5")},
	))
	require.NoError(t, err)

	all, err := env.suggestions.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Korniş", "Stor"}, all.Names)
	assert.Equal(t, []string{"Karartma"}, all.Descriptions)
}

func TestSuggestionFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	failing := NewSuggestionService(failingSettingsRepo{env.settingsRep}, env.orders.log)
	env.orders.suggestions = failing

	order, err := env.orders.CreateOrder(ctx, draft(env.customer(t, "Burak").ID))
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)

	warnings := env.logs.FilterLevelExact(zap.WarnLevel).FilterMessage("Failed to update suggestions")
	assert.Equal(t, 1, warnings.Len())

	names, err := env.suggestions.NameSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
