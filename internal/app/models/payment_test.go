package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsValidTransition(t *testing.T) {
	allowed := map[PaymentStatus]map[PaymentStatus]bool{
		PaymentStatusPending:   {PaymentStatusCompleted: true, PaymentStatusFailed: true},
		PaymentStatusCompleted: {PaymentStatusRefunded: true},
	}

	for _, current := range PaymentStatuses {
		for _, next := range PaymentStatuses {
			want := allowed[current][next]
			assert.Equalf(t, want, IsValidTransition(current, next), "%s -> %s", current, next)
		}
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusCompleted.IsTerminal())
	assert.True(t, PaymentStatusFailed.IsTerminal())
	assert.True(t, PaymentStatusRefunded.IsTerminal())
}

func TestPayment_Clone(t *testing.T) {
	refund := decimal.RequireFromString("10")
	original := &Payment{
		ID:            "payment-1",
		StatusHistory: []StatusHistoryEntry{{Status: PaymentStatusPending}},
		RefundAmount:  &refund,
	}

	clone := original.Clone()
	clone.StatusHistory = append(clone.StatusHistory, StatusHistoryEntry{Status: PaymentStatusCompleted})
	*clone.RefundAmount = decimal.RequireFromString("20")

	assert.Len(t, original.StatusHistory, 1)
	assert.True(t, original.RefundAmount.Equal(decimal.RequireFromString("10")))
}

func TestMobileMoneyProvider(t *testing.T) {
	testCases := []struct {
		provider MobileMoneyProvider
		prefix   string
		want     bool
	}{
		{MobileMoneyProviderMTN, "096", true},
		{MobileMoneyProviderMTN, "076", true},
		{MobileMoneyProviderMTN, "097", false},
		{MobileMoneyProviderAirtel, "097", true},
		{MobileMoneyProviderAirtel, "077", true},
		{MobileMoneyProviderZamtel, "095", true},
		{MobileMoneyProviderZamtel, "075", true},
		{MobileMoneyProviderZamtel, "096", false},
	}

	for _, tc := range testCases {
		assert.Equalf(t, tc.want, tc.provider.OwnsPrefix(tc.prefix), "%s owns %s", tc.provider, tc.prefix)
	}

	provider, ok := ParseMobileMoneyProvider(" Airtel ")
	assert.True(t, ok)
	assert.Equal(t, MobileMoneyProviderAirtel, provider)

	_, ok = ParseMobileMoneyProvider("vodafone")
	assert.False(t, ok)
}
