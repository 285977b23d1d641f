package api

import (
	"github.com/shopspring/decimal"

	"jeongsan/settle"
)

func init() {
	// the backend reads money as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Contribution is one member's share of the collected trip funds.
type Contribution struct {
	MemberID   int64  `json:"member_id"`
	AmountKRW  int64  `json:"amount_krw"`
	MemberName string `json:"member_name"`
}

// AdvancePayment is money a member already spent for the group before the trip fund existed.
type AdvancePayment struct {
	MemberID      int64           `json:"member_id"`
	Name          string          `json:"name,omitempty"`
	AmountForeign decimal.Decimal `json:"amount_foreign"`
}

type CreateTripRequest struct {
	Contributions   []Contribution   `json:"contributions"`
	TotalForeign    decimal.Decimal  `json:"total_foreign"`
	CountryCode     string           `json:"country_code"`
	AdvancePayments []AdvancePayment `json:"advance_payments,omitempty"`
}

// Wallet status values sent by the backend.
const (
	StatusSafe    = "SAFE"
	StatusWarning = "WARNING"
	StatusDanger  = "DANGER"
)

type PublicWallet struct {
	TotalCollectedForeign decimal.Decimal `json:"total_collected_foreign"`
	TotalSpentForeign     decimal.Decimal `json:"total_spent_foreign"`
	RemainingForeign      decimal.Decimal `json:"remaining_foreign"`
	BurnRate              *float64        `json:"burn_rate,omitempty"`
	Status                string          `json:"status"`
}

type MemberWalletStatus struct {
	MemberID           settle.MemberID `json:"member_id"`
	MemberName         string          `json:"member_name"`
	IsLeader           bool            `json:"is_leader"`
	ContributedKRW     int64           `json:"contributed_krw"`
	ContributedForeign decimal.Decimal `json:"contributed_foreign"`
	SpentForeign       decimal.Decimal `json:"spent_foreign"`
	IndividualSpentKRW int64           `json:"individual_spent_krw"`
}

type PaymentType string

const (
	PaymentPublic     PaymentType = "PUBLIC"
	PaymentIndividual PaymentType = "INDIVIDUAL"
)

// Payment is a recorded expense. Price is the KRW equivalent and is null for
// payments made in KRW.
type Payment struct {
	ID              int64           `json:"id"`
	Type            PaymentType     `json:"type"`
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	Price           *int64          `json:"price"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	PayMemberID     int64           `json:"pay_member_id,omitempty"`
	AttendMemberIDs []int64         `json:"attend_member_ids"`
	PayDate         string          `json:"pay_date,omitempty"`
}

// PaymentRequest is the create/update body. Price is always serialized so a
// KRW payment sends an explicit null.
type PaymentRequest struct {
	Type            PaymentType     `json:"type"`
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	Price           *int64          `json:"price"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	PayMemberID     int64           `json:"pay_member_id,omitempty"`
	AttendMemberIDs []int64         `json:"attend_member_ids"`
	PayDate         string          `json:"pay_date,omitempty"`
}

type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

type Dashboard struct {
	PublicWallet        PublicWallet         `json:"public_wallet"`
	MembersWalletStatus []MemberWalletStatus `json:"members_wallet_status"`
	MyPublicStatus      *MemberWalletStatus  `json:"my_public_status,omitempty"`
	RecentPayments      []Payment            `json:"recent_payments"`
	Pagination          Pagination           `json:"pagination"`
	Currency            string               `json:"currency"`
}

type Meeting struct {
	ID          int64  `json:"id"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

type PublicBudget struct {
	TotalForeign     decimal.Decimal `json:"total_foreign"`
	TotalKRW         int64           `json:"total_krw"`
	RemainingForeign decimal.Decimal `json:"remaining_foreign"`
	Currency         string          `json:"currency"`
}

type TripCost struct {
	TotalKRW      int64 `json:"total_krw"`
	PublicKRW     int64 `json:"public_krw"`
	IndividualKRW int64 `json:"individual_krw"`
}

type SettlementResult struct {
	Meeting         Meeting        `json:"meeting"`
	PublicBudget    PublicBudget   `json:"public_budget"`
	TripCost        TripCost       `json:"trip_cost"`
	FinalSettlement []settle.Entry `json:"final_settlement"`
}

type AddBudgetRequest struct {
	ForeignAmount decimal.Decimal `json:"foreignAmount"`
	MemberIDs     []int64         `json:"memberIds"`
}

type ExchangeRate struct {
	Currency string          `json:"currency,omitempty"`
	Date     string          `json:"date,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
}
