package trip

import (
	"strings"

	"github.com/shopspring/decimal"

	"jeongsan/api"
)

// CreateInput is everything the final wizard step submits.
type CreateInput struct {
	Wizard          *Wizard
	TotalForeign    decimal.Decimal
	CountryCode     string
	AdvancePayments []api.AdvancePayment
}

// BuildCreateTrip validates the input and produces the backend request.
func BuildCreateTrip(in CreateInput) (api.CreateTripRequest, error) {
	if in.Wizard == nil {
		return api.CreateTripRequest{}, invalid("members", ErrNoMembers)
	}
	contributions, err := in.Wizard.Contributions()
	if err != nil {
		return api.CreateTripRequest{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if code == "" {
		return api.CreateTripRequest{}, invalid("country_code", ErrMissingCurrency)
	}
	if !in.TotalForeign.IsPositive() {
		return api.CreateTripRequest{}, invalid("total_foreign", ErrNonPositiveAmount)
	}
	for _, ap := range in.AdvancePayments {
		if !ap.AmountForeign.IsPositive() {
			return api.CreateTripRequest{}, invalid("advance_payments.amount_foreign", ErrNonPositiveAmount)
		}
	}

	return api.CreateTripRequest{
		Contributions:   contributions,
		TotalForeign:    in.TotalForeign,
		CountryCode:     code,
		AdvancePayments: in.AdvancePayments,
	}, nil
}
