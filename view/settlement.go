// Package view assembles backend payloads into display-ready models: resolved
// settlement rows, formatted amounts and budget progress.
package view

import (
	"jeongsan/api"
	"jeongsan/currency"
	"jeongsan/settle"
)

// SettlementRow is one member's line on the result screen.
type SettlementRow struct {
	Key       string           `json:"key"`
	MemberID  settle.MemberID  `json:"member_id"`
	Name      string           `json:"member_name"`
	IsLeader  bool             `json:"is_leader"`
	Direction settle.Direction `json:"direction"`
	Tipped    bool             `json:"tipped"`
	// TipAvailable is false when the tipped amount equals the plain one.
	TipAvailable bool   `json:"tip_available"`
	AmountText   string `json:"amount_text"`
	settle.Resolved
}

type SettlementView struct {
	Meeting      api.Meeting     `json:"meeting"`
	Leader       *SettlementRow  `json:"leader,omitempty"`
	Rows         []SettlementRow `json:"rows"`
	SimpleSplit  bool            `json:"simple_split"`
	SimpleAmount int64           `json:"simple_amount,omitempty"`
	SimpleText   string          `json:"simple_text,omitempty"`
	TotalText    string          `json:"total_text"`
	PublicText   string          `json:"public_text"`
	PersonalText string          `json:"personal_text"`
	BudgetText   string          `json:"budget_text"`
}

// BuildSettlementView resolves every entry under its toggle and decides
// whether the compact simple-split layout applies.
func BuildSettlementView(result api.SettlementResult, toggles settle.TipToggles) SettlementView {
	v := SettlementView{
		Meeting:      result.Meeting,
		Rows:         make([]SettlementRow, 0, len(result.FinalSettlement)),
		TotalText:    currency.FormatInt(result.TripCost.TotalKRW, currency.DefaultCode),
		PublicText:   currency.FormatInt(result.TripCost.PublicKRW, currency.DefaultCode),
		PersonalText: currency.FormatInt(result.TripCost.IndividualKRW, currency.DefaultCode),
		BudgetText:   currency.Format(result.PublicBudget.TotalForeign, budgetCode(result)),
	}

	for _, e := range result.FinalSettlement {
		if e.IsLeader {
			leader := buildRow(e, toggles)
			v.Leader = &leader
			break
		}
	}
	// rows follow the same leader filter as the simple-split check
	for _, e := range settle.NonLeaders(result.FinalSettlement) {
		v.Rows = append(v.Rows, buildRow(e, toggles))
	}

	if settle.IsSimpleSplit(result.FinalSettlement, toggles) && len(v.Rows) > 0 {
		v.SimpleSplit = true
		v.SimpleAmount = abs(v.Rows[0].Amount)
		v.SimpleText = currency.FormatInt(v.SimpleAmount, currency.DefaultCode)
	}
	return v
}

func buildRow(e settle.Entry, toggles settle.TipToggles) SettlementRow {
	tipped := toggles.IsTipped(e.MemberID, e.Name)
	resolved := settle.Resolve(e, tipped)
	return SettlementRow{
		Key:          e.Key(),
		MemberID:     e.MemberID,
		Name:         e.Name,
		IsLeader:     e.IsLeader,
		Direction:    e.Direction,
		Tipped:       tipped,
		TipAvailable: settle.ResolveAmount(e, true) != e.Amount,
		AmountText:   currency.FormatInt(abs(resolved.Amount), currency.DefaultCode),
		Resolved:     resolved,
	}
}

func budgetCode(result api.SettlementResult) string {
	if result.PublicBudget.Currency != "" {
		return result.PublicBudget.Currency
	}
	return result.Meeting.CountryCode
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
