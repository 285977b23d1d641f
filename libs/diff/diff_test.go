package diff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeongsan/api"
)

func TestChangesComparesDecimalsByValue(t *testing.T) {
	a := api.PublicWallet{RemainingForeign: decimal.RequireFromString("1.50"), Status: api.StatusSafe}
	b := api.PublicWallet{RemainingForeign: decimal.RequireFromString("1.5"), Status: api.StatusSafe}

	changes, err := Changes(a, b)
	require.NoError(t, err)
	assert.Empty(t, changes)

	b.RemainingForeign = decimal.NewFromInt(1)
	b.Status = api.StatusWarning
	changes, err = Changes(a, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"RemainingForeign", "Status"}, changes)
}

func TestChangesOnDashboard(t *testing.T) {
	price := int64(9000)
	prev := api.Dashboard{
		Currency: "JPY",
		RecentPayments: []api.Payment{
			{ID: 1, Name: "라멘", OriginalPrice: decimal.NewFromInt(1000), Price: &price},
		},
	}
	next := prev
	next.RecentPayments = append([]api.Payment{}, prev.RecentPayments...)
	next.RecentPayments[0].Name = "라멘 곱빼기"

	changes, err := Changes(prev, next)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0], "RecentPayments")
	assert.Contains(t, changes[0], "Name")
}
