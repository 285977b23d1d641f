package trip

import (
	"strings"

	"github.com/shopspring/decimal"

	"jeongsan/api"
	"jeongsan/currency"
)

// PaymentInput is a typed expense before conversion.
type PaymentInput struct {
	Type            api.PaymentType
	Name            string
	Currency        string
	OriginalPrice   decimal.Decimal
	ExchangeRate    decimal.Decimal
	PayMemberID     int64
	AttendMemberIDs []int64
	PayDate         string
}

// BuildPayment validates an expense and converts it for the backend.
//
// KRW payments are sent with a null price and a rate of 1 so the backend does
// not convert them a second time. Other currencies send floor(original × rate).
// An empty attendee list on a PUBLIC payment means everyone.
func BuildPayment(in PaymentInput) (api.PaymentRequest, error) {
	switch in.Type {
	case api.PaymentPublic, api.PaymentIndividual:
	default:
		return api.PaymentRequest{}, invalid("type", ErrUnknownPaymentType)
	}
	if strings.TrimSpace(in.Currency) == "" {
		return api.PaymentRequest{}, invalid("currency", ErrMissingCurrency)
	}
	if !in.OriginalPrice.IsPositive() {
		return api.PaymentRequest{}, invalid("original_price", ErrNonPositiveAmount)
	}
	if in.Type == api.PaymentIndividual && len(in.AttendMemberIDs) == 0 {
		return api.PaymentRequest{}, invalid("attend_member_ids", ErrNoAttendees)
	}

	rule := currency.RuleFor(in.Currency)
	req := api.PaymentRequest{
		Type:            in.Type,
		Name:            strings.TrimSpace(in.Name),
		Currency:        rule.Code,
		OriginalPrice:   in.OriginalPrice,
		PayMemberID:     in.PayMemberID,
		AttendMemberIDs: in.AttendMemberIDs,
		PayDate:         in.PayDate,
	}
	if req.AttendMemberIDs == nil {
		req.AttendMemberIDs = []int64{}
	}

	if rule.Code == currency.DefaultCode {
		req.ExchangeRate = decimal.NewFromInt(1)
		req.Price = nil
		return req, nil
	}

	if !in.ExchangeRate.IsPositive() {
		return api.PaymentRequest{}, invalid("exchange_rate", ErrMissingExchangeRate)
	}
	price := in.OriginalPrice.Mul(in.ExchangeRate).Floor().IntPart()
	req.ExchangeRate = in.ExchangeRate
	req.Price = &price
	return req, nil
}

// BuildAddBudget validates a top-up of the shared fund.
func BuildAddBudget(foreignAmount decimal.Decimal, memberIDs []int64) (api.AddBudgetRequest, error) {
	if !foreignAmount.IsPositive() {
		return api.AddBudgetRequest{}, invalid("foreignAmount", ErrNonPositiveAmount)
	}
	if len(memberIDs) == 0 {
		return api.AddBudgetRequest{}, invalid("memberIds", ErrNoMembers)
	}
	return api.AddBudgetRequest{ForeignAmount: foreignAmount, MemberIDs: memberIDs}, nil
}
