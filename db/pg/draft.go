package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jeongsan/api"
	dbt "jeongsan/db/db"
)

// GORMDraftDBWrapper stores drafts in postgres.
type GORMDraftDBWrapper struct {
	db *gorm.DB
}

func NewGORMDraftDBWrapper(db *gorm.DB) dbt.DraftDBWrapper {
	return &GORMDraftDBWrapper{db: db}
}

func toModels(d *dbt.Draft) (DraftModel, []DraftMemberModel) {
	draft := DraftModel{
		ID:               d.ID,
		Name:             d.Name,
		CountryCode:      d.CountryCode,
		TotalForeign:     d.TotalForeign,
		Mode:             d.Mode,
		EqualAmount:      d.EqualAmount,
		IndividualLocked: d.IndividualLocked,
		AdvancePayments:  d.AdvancePayments,
	}
	if draft.AdvancePayments == nil {
		draft.AdvancePayments = []api.AdvancePayment{}
	}
	members := make([]DraftMemberModel, 0, len(d.Members))
	for i, m := range d.Members {
		members = append(members, DraftMemberModel{
			DraftID:   d.ID,
			Position:  i,
			MemberID:  m.MemberID,
			TempID:    m.TempID,
			Name:      m.Name,
			IsLeader:  m.IsLeader,
			Amount:    m.Amount,
			HasAmount: m.HasAmount,
		})
	}
	return draft, members
}

func toInfo(m DraftModel) dbt.DraftInfo {
	return dbt.DraftInfo{
		ID:               m.ID,
		Name:             m.Name,
		CountryCode:      m.CountryCode,
		TotalForeign:     m.TotalForeign,
		Mode:             m.Mode,
		EqualAmount:      m.EqualAmount,
		IndividualLocked: m.IndividualLocked,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (pgdb *GORMDraftDBWrapper) CreateDraft(ctx context.Context, d *dbt.Draft) error {
	draft, members := toModels(d)
	err := pgdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return fmt.Errorf("draft with ID %s %w: %v", d.ID, dbt.ErrAlreadyExists, err)
		}
		return fmt.Errorf("failed to create draft: %w", err)
	}
	d.CreatedAt = draft.CreatedAt
	d.UpdatedAt = draft.UpdatedAt
	return nil
}

func (pgdb *GORMDraftDBWrapper) GetDraft(ctx context.Context, id uuid.UUID) (*dbt.Draft, error) {
	var draft DraftModel
	result := pgdb.db.WithContext(ctx).First(&draft, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("draft with ID %s %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get draft %s: %w", id, result.Error)
	}

	var members []DraftMemberModel
	result = pgdb.db.WithContext(ctx).Where("draft_id = ?", id).Order("position").Find(&members)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get members of draft %s: %w", id, result.Error)
	}

	d := &dbt.Draft{DraftInfo: toInfo(draft)}
	d.AdvancePayments = draft.AdvancePayments
	d.Members = make([]dbt.DraftMember, 0, len(members))
	for _, m := range members {
		d.Members = append(d.Members, dbt.DraftMember{
			MemberID:  m.MemberID,
			TempID:    m.TempID,
			Name:      m.Name,
			IsLeader:  m.IsLeader,
			Amount:    m.Amount,
			HasAmount: m.HasAmount,
		})
	}
	return d, nil
}

func (pgdb *GORMDraftDBWrapper) ListDrafts(ctx context.Context) ([]dbt.DraftInfo, error) {
	var drafts []DraftModel
	result := pgdb.db.WithContext(ctx).Omit("advance_payments").Order("updated_at DESC").Find(&drafts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", result.Error)
	}
	infos := make([]dbt.DraftInfo, 0, len(drafts))
	for _, d := range drafts {
		infos = append(infos, toInfo(d))
	}
	return infos, nil
}

// UpdateDraft rewrites the draft row and replaces its members in one transaction.
func (pgdb *GORMDraftDBWrapper) UpdateDraft(ctx context.Context, d *dbt.Draft) error {
	draft, members := toModels(d)
	draft.UpdatedAt = time.Now()
	err := pgdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 使用 Select 選擇要更新的欄位，避免更新 CreatedAt 等 GORM 自動欄位
		result := tx.Model(&DraftModel{}).Where("id = ?", d.ID).
			Select("name", "country_code", "total_foreign", "mode", "equal_amount", "individual_locked", "advance_payments", "updated_at").
			Updates(&draft)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("draft with ID %s %w", d.ID, dbt.ErrNotFound)
		}
		// 成員整批替換
		if err := tx.Where("draft_id = ?", d.ID).Delete(&DraftMemberModel{}).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dbt.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update draft %s: %w", d.ID, err)
	}
	d.UpdatedAt = draft.UpdatedAt
	return nil
}

func (pgdb *GORMDraftDBWrapper) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	err := pgdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ?", id).Delete(&DraftMemberModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&DraftModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("draft with ID %s %w", id, dbt.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dbt.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}
