package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "  "})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	email := "veli@example.com"
	c, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: " Veli ", Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Veli", c.Name)

	phone := "0555"
	updated, err := env.customers.UpdateCustomer(ctx, &UpdateCustomerInput{ID: c.ID, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Veli", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "0555", *updated.Phone)

	require.NoError(t, env.customers.DeleteCustomer(ctx, c.ID))
	_, err = env.customers.GetCustomer(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(env.customers.DeleteCustomer(ctx, uuid.New())))
}

func TestListCustomersSortedByName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	for _, name := range []string{"Cem", "Arda", "Bora"} {
		env.customer(t, name)
	}

	res, err := env.customers.ListCustomers(ctx, &pagination.PaginationParams{Page: 1, PerPage: 2}, "")
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Arda", res.Items[0].Name)
	assert.Equal(t, "Bora", res.Items[1].Name)
	assert.EqualValues(t, 3, res.Pagination.Total)
	assert.True(t, res.Pagination.HasNext)

	res, err = env.customers.ListCustomers(ctx, nil, "bor")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bora", res.Items[0].Name)
}
