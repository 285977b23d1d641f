package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jeongsan/api"
)

type DraftInfo struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	CountryCode      string          `json:"country_code"`
	TotalForeign     decimal.Decimal `json:"total_foreign"`
	Mode             string          `json:"mode"`
	EqualAmount      string          `json:"equal_amount"`
	IndividualLocked bool            `json:"individual_locked"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DraftMember is one wizard member in display order. Amount is the raw
// individual amount text.
type DraftMember struct {
	MemberID int64  `json:"member_id,omitempty"`
	TempID   string `json:"temp_id,omitempty"`
	Name     string `json:"name"`
	IsLeader bool   `json:"is_leader"`
	Amount   string `json:"amount,omitempty"`
	// HasAmount tells an empty typed amount apart from no entry at all.
	HasAmount bool `json:"has_amount"`
}

type DraftData struct {
	Members         []DraftMember        `json:"members"`
	AdvancePayments []api.AdvancePayment `json:"advance_payments"`
}

type Draft struct {
	DraftInfo
	DraftData
}
