package pg

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jeongsan/api"
)

type DraftModel struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Name             string               `gorm:"size:255;not null"`
	CountryCode      string               `gorm:"size:8;not null"`
	TotalForeign     decimal.Decimal      `gorm:"type:numeric(18,4);not null"`
	Mode             string               `gorm:"size:16;not null"`
	EqualAmount      string               `gorm:"size:32;not null"`
	IndividualLocked bool                 `gorm:"not null"`
	AdvancePayments  []api.AdvancePayment `gorm:"type:jsonb;serializer:json;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for DraftModel.
func (DraftModel) TableName() string {
	return "drafts"
}

type DraftMemberModel struct {
	DraftID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	MemberID  int64     `gorm:"not null"`
	TempID    string    `gorm:"size:64;not null"`
	Name      string    `gorm:"size:255;not null"`
	IsLeader  bool      `gorm:"not null"`
	Amount    string    `gorm:"size:32;not null"`
	HasAmount bool      `gorm:"not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for DraftMemberModel.
func (DraftMemberModel) TableName() string {
	return "draft_members"
}
