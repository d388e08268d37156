package services

import (
	"context"
	"testing"

	"prestamax/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationService_Simulate(t *testing.T) {
	svc := NewSimulationService(&fakeProductStore{product: testProduct()})

	result, product, err := svc.Simulate(context.Background(), testTenant, &SimulationRequest{
		ProductID:        1,
		Amount:           50000,
		TermMonths:       12,
		PaymentFrequency: "MONTHLY",
	})
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "PERSONAL", product.Code)
	assert.Equal(t, 12, result.NumberOfPayments)
	assert.True(t, result.OpeningCommission.Equal(result.OpeningCommission.Round(2)))
	assert.Greater(t, result.CAT, product.AnnualRate, "commission pushes CAT above the nominal rate")
}

func TestSimulationService_Simulate_ProductRules(t *testing.T) {
	svc := NewSimulationService(&fakeProductStore{product: testProduct()})
	ctx := context.Background()

	_, _, err := svc.Simulate(ctx, testTenant, &SimulationRequest{
		ProductID: 1, Amount: 1000, TermMonths: 12, PaymentFrequency: "MONTHLY",
	})
	var inputErr *domain.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "requested_amount", inputErr.Field)

	_, _, err = svc.Simulate(ctx, testTenant, &SimulationRequest{
		ProductID: 1, Amount: 50000, TermMonths: 12, PaymentFrequency: "DAILY",
	})
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "payment_frequency", inputErr.Field)
}

func TestSimulationService_Simulate_RestrictedFrequency(t *testing.T) {
	product := testProduct()
	product.AllowedFrequencies = "MONTHLY"
	svc := NewSimulationService(&fakeProductStore{product: product})

	_, _, err := svc.Simulate(context.Background(), testTenant, &SimulationRequest{
		ProductID: 1, Amount: 50000, TermMonths: 12, PaymentFrequency: "WEEKLY",
	})
	var inputErr *domain.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "payment_frequency", inputErr.Field)
}

func TestSimulationService_Simulate_UnknownProduct(t *testing.T) {
	svc := NewSimulationService(&fakeProductStore{product: testProduct()})

	_, _, err := svc.Simulate(context.Background(), testTenant, &SimulationRequest{
		ProductID: 42, Amount: 50000, TermMonths: 12, PaymentFrequency: "MONTHLY",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSimulationService_Simulate_InactiveProduct(t *testing.T) {
	product := testProduct()
	product.IsActive = false
	svc := NewSimulationService(&fakeProductStore{product: product})

	_, _, err := svc.Simulate(context.Background(), testTenant, &SimulationRequest{
		ProductID: 1, Amount: 50000, TermMonths: 12, PaymentFrequency: "MONTHLY",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
