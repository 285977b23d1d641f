package trip

import (
	"github.com/shopspring/decimal"

	"jeongsan/api"
)

// Progress bar colors.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorGray   = "gray"
)

// BudgetProgress is what a progress bar needs.
type BudgetProgress struct {
	RemainingPercentage float64 `json:"remaining_percentage"`
	BarWidth            float64 `json:"bar_width"`
	Status              string  `json:"status"`
	Color               string  `json:"color"`
}

var hundred = decimal.NewFromInt(100)

// RemainingPercentage prefers the backend burn rate, then derives the share
// from the totals, and is 0 when nothing was collected.
func RemainingPercentage(w api.PublicWallet) float64 {
	if w.BurnRate != nil {
		return 100 - *w.BurnRate
	}
	if w.TotalCollectedForeign.IsPositive() {
		return w.RemainingForeign.Div(w.TotalCollectedForeign).Mul(hundred).InexactFloat64()
	}
	return 0
}

// ClampWidth keeps a bar width within [0, 100].
func ClampWidth(pct float64) float64 {
	switch {
	case pct != pct: // NaN
		return 0
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// StatusColor maps a wallet status to a bar color. Unknown statuses are gray.
func StatusColor(status string) string {
	switch status {
	case api.StatusSafe:
		return ColorGreen
	case api.StatusWarning:
		return ColorYellow
	case api.StatusDanger:
		return ColorRed
	default:
		return ColorGray
	}
}

// Progress derives the progress bar for a wallet.
func Progress(w api.PublicWallet) BudgetProgress {
	pct := RemainingPercentage(w)
	return BudgetProgress{
		RemainingPercentage: pct,
		BarWidth:            ClampWidth(pct),
		Status:              w.Status,
		Color:               StatusColor(w.Status),
	}
}
