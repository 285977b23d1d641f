package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeongsan/api"
	"jeongsan/settle"
	"jeongsan/trip"
)

func i64(v int64) *int64   { return &v }
func str(v string) *string { return &v }

func sampleResult() api.SettlementResult {
	return api.SettlementResult{
		Meeting:      api.Meeting{ID: 7, UUID: "trip-uuid", Name: "오사카", CountryCode: "JP"},
		PublicBudget: api.PublicBudget{TotalForeign: decimal.NewFromInt(60000), Currency: "JPY"},
		TripCost:     api.TripCost{TotalKRW: 612000, PublicKRW: 550000, IndividualKRW: 62000},
		FinalSettlement: []settle.Entry{
			{MemberID: "1", Name: "총무", IsLeader: true, Amount: 0},
			{MemberID: "2", Name: "멤버1", Amount: 10340, TippedAmount: i64(10400), TossDepositLink: str("supertoss://a")},
			{MemberID: "3", Name: "멤버2", Amount: 10340, TippedAmount: i64(10400), DepositCopyText: str("국민 123 총무")},
		},
	}
}

func TestBuildSettlementView(t *testing.T) {
	v := BuildSettlementView(sampleResult(), nil)

	require.NotNil(t, v.Leader)
	assert.Equal(t, "총무", v.Leader.Name)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "612,000원", v.TotalText)
	assert.Equal(t, "60,000¥", v.BudgetText)

	first := v.Rows[0]
	assert.Equal(t, int64(10340), first.Amount)
	assert.Equal(t, "10,340원", first.AmountText)
	assert.Equal(t, settle.ActionPayLink, first.Action)
	assert.True(t, first.TipAvailable)
	assert.False(t, first.Tipped)

	assert.Equal(t, settle.ActionCopyText, v.Rows[1].Action)

	assert.True(t, v.SimpleSplit)
	assert.Equal(t, int64(10340), v.SimpleAmount)
	assert.Equal(t, "10,340원", v.SimpleText)
}

func TestBuildSettlementViewSecondLeader(t *testing.T) {
	result := sampleResult()
	// a second leader row owing a different amount comes first among the rows
	result.FinalSettlement = append([]settle.Entry{
		result.FinalSettlement[0],
		{MemberID: "9", Name: "부총무", IsLeader: true, Amount: 5000},
	}, result.FinalSettlement[1:]...)

	v := BuildSettlementView(result, nil)
	require.NotNil(t, v.Leader)
	assert.Equal(t, "총무", v.Leader.Name)
	require.Len(t, v.Rows, 2)
	for _, r := range v.Rows {
		assert.False(t, r.IsLeader)
	}
	assert.True(t, v.SimpleSplit)
	assert.Equal(t, int64(10340), v.SimpleAmount)
	assert.Equal(t, "10,340원", v.SimpleText)
}

func TestBuildSettlementViewTipped(t *testing.T) {
	toggles := settle.TipToggles{}
	toggles.Set("2", "멤버1", true)

	v := BuildSettlementView(sampleResult(), toggles)
	require.Len(t, v.Rows, 2)
	assert.True(t, v.Rows[0].Tipped)
	assert.Equal(t, int64(10400), v.Rows[0].Amount)
	assert.Equal(t, int64(10340), v.Rows[1].Amount)
	assert.False(t, v.SimpleSplit, "rows resolve to different amounts")

	toggles.Set("3", "멤버2", true)
	v = BuildSettlementView(sampleResult(), toggles)
	assert.True(t, v.SimpleSplit)
	assert.Equal(t, "10,400원", v.SimpleText)
}

func TestBuildSettlementViewReceiving(t *testing.T) {
	result := sampleResult()
	result.FinalSettlement[1].Name = "철수"
	result.FinalSettlement[1].Amount = -5000
	result.FinalSettlement[1].TippedAmount = nil

	v := BuildSettlementView(result, nil)
	assert.False(t, v.SimpleSplit)
	row := v.Rows[0]
	assert.True(t, row.IsReceiving)
	assert.Equal(t, "5,000원", row.AmountText)
	assert.Nil(t, row.DepositCopyText)
	assert.False(t, row.TipAvailable)
}

func TestBuildDashboardView(t *testing.T) {
	d := api.Dashboard{
		Currency: "JPY",
		PublicWallet: api.PublicWallet{
			TotalCollectedForeign: decimal.NewFromInt(60000),
			TotalSpentForeign:     decimal.NewFromInt(45000),
			RemainingForeign:      decimal.NewFromInt(15000),
			Status:                api.StatusWarning,
		},
		MembersWalletStatus: []api.MemberWalletStatus{
			{MemberID: "1", MemberName: "총무", ContributedForeign: decimal.NewFromInt(30000), IndividualSpentKRW: 12000},
		},
		RecentPayments: []api.Payment{
			{ID: 1, Currency: "JPY", OriginalPrice: decimal.NewFromInt(1200), Price: i64(11016)},
			{ID: 2, Currency: "KRW", OriginalPrice: decimal.NewFromInt(8900)},
			{ID: 3, Currency: "USD", OriginalPrice: decimal.RequireFromString("12.5")},
		},
		Pagination: api.Pagination{Limit: 3, HasMore: true},
	}

	v := BuildDashboardView(d)
	assert.Equal(t, "JPY", v.Currency)
	assert.Equal(t, "60,000¥", v.Wallet.CollectedText)
	assert.Equal(t, "15,000¥", v.Wallet.RemainingText)
	assert.Equal(t, trip.ColorYellow, v.Wallet.Progress.Color)
	assert.InDelta(t, 25.0, v.Wallet.Progress.BarWidth, 1e-9)

	require.Len(t, v.Members, 1)
	assert.Equal(t, "30,000¥", v.Members[0].ContributedText)
	assert.Equal(t, "12,000원", v.Members[0].PersonalText)
	assert.Nil(t, v.Me)

	require.Len(t, v.Payments, 3)
	assert.Equal(t, "1,200¥", v.Payments[0].OriginalText)
	assert.Equal(t, "11,016원", v.Payments[0].KRWText)
	assert.Equal(t, "8,900원", v.Payments[1].KRWText)
	assert.Equal(t, "$12.50", v.Payments[2].OriginalText)
	assert.Empty(t, v.Payments[2].KRWText)
	assert.True(t, v.Pagination.HasMore)
}
