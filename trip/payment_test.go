package trip

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeongsan/api"
)

func TestBuildPaymentKRWSendsNullPrice(t *testing.T) {
	req, err := BuildPayment(PaymentInput{
		Type:            api.PaymentIndividual,
		Name:            " 편의점 ",
		Currency:        "KR",
		OriginalPrice:   decimal.NewFromInt(8900),
		ExchangeRate:    decimal.RequireFromString("9.5"),
		AttendMemberIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Nil(t, req.Price)
	assert.Equal(t, "KRW", req.Currency)
	assert.Equal(t, "편의점", req.Name)
	assert.True(t, req.ExchangeRate.Equal(decimal.NewFromInt(1)))
}

func TestBuildPaymentForeignConverts(t *testing.T) {
	req, err := BuildPayment(PaymentInput{
		Type:          api.PaymentPublic,
		Currency:      "JPY",
		OriginalPrice: decimal.NewFromInt(1999),
		ExchangeRate:  decimal.RequireFromString("9.18"),
	})
	require.NoError(t, err)
	require.NotNil(t, req.Price)
	// 1999 * 9.18 = 18350.82, floored
	assert.Equal(t, int64(18350), *req.Price)
	assert.Equal(t, []int64{}, req.AttendMemberIDs)
}

func TestBuildPaymentValidation(t *testing.T) {
	base := PaymentInput{
		Type:            api.PaymentIndividual,
		Currency:        "USD",
		OriginalPrice:   decimal.NewFromInt(10),
		ExchangeRate:    decimal.NewFromInt(1400),
		AttendMemberIDs: []int64{1},
	}

	tests := []struct {
		name   string
		mutate func(*PaymentInput)
		want   error
	}{
		{name: "unknown type", mutate: func(p *PaymentInput) { p.Type = "SHARED" }, want: ErrUnknownPaymentType},
		{name: "empty currency", mutate: func(p *PaymentInput) { p.Currency = " " }, want: ErrMissingCurrency},
		{name: "zero price", mutate: func(p *PaymentInput) { p.OriginalPrice = decimal.Zero }, want: ErrNonPositiveAmount},
		{name: "no attendees", mutate: func(p *PaymentInput) { p.AttendMemberIDs = nil }, want: ErrNoAttendees},
		{name: "missing rate", mutate: func(p *PaymentInput) { p.ExchangeRate = decimal.Zero }, want: ErrMissingExchangeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := BuildPayment(in)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestBuildAddBudget(t *testing.T) {
	_, err := BuildAddBudget(decimal.Zero, []int64{1})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
	_, err = BuildAddBudget(decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrNoMembers)

	req, err := BuildAddBudget(decimal.NewFromInt(10), []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, req.MemberIDs)
}

func TestBuildCreateTrip(t *testing.T) {
	w := NewWizard()
	_, _ = w.AddMember("총무")
	_, _ = w.AddMember("철수")
	w.SetEqualAmount("300000")

	req, err := BuildCreateTrip(CreateInput{Wizard: w, TotalForeign: decimal.NewFromInt(60000), CountryCode: "jp"})
	require.NoError(t, err)
	assert.Equal(t, "JP", req.CountryCode)
	assert.Len(t, req.Contributions, 2)

	_, err = BuildCreateTrip(CreateInput{Wizard: w, TotalForeign: decimal.NewFromInt(60000)})
	assert.ErrorIs(t, err, ErrMissingCurrency)

	_, err = BuildCreateTrip(CreateInput{Wizard: w, CountryCode: "JP"})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = BuildCreateTrip(CreateInput{CountryCode: "JP", TotalForeign: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNoMembers)

	_, err = BuildCreateTrip(CreateInput{
		Wizard: w, CountryCode: "JP", TotalForeign: decimal.NewFromInt(1),
		AdvancePayments: []api.AdvancePayment{{MemberID: 1}},
	})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}
