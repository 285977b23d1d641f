package view

import (
	"github.com/shopspring/decimal"

	"jeongsan/api"
	"jeongsan/currency"
	"jeongsan/trip"
)

type WalletView struct {
	api.PublicWallet
	CollectedText string              `json:"collected_text"`
	SpentText     string              `json:"spent_text"`
	RemainingText string              `json:"remaining_text"`
	Progress      trip.BudgetProgress `json:"progress"`
}

type MemberView struct {
	api.MemberWalletStatus
	ContributedText string `json:"contributed_text"`
	SpentText       string `json:"spent_text"`
	PersonalText    string `json:"personal_text"`
}

type PaymentView struct {
	api.Payment
	OriginalText string `json:"original_text"`
	// KRWText is empty when a foreign payment carries no converted price.
	KRWText string `json:"krw_text"`
}

type DashboardView struct {
	Currency   string         `json:"currency"`
	Wallet     WalletView     `json:"wallet"`
	Me         *MemberView    `json:"me,omitempty"`
	Members    []MemberView   `json:"members"`
	Payments   []PaymentView  `json:"payments"`
	Pagination api.Pagination `json:"pagination"`
}

// BuildDashboardView formats the wallet in the trip currency and member
// spending in KRW.
func BuildDashboardView(d api.Dashboard) DashboardView {
	code := currency.RuleFor(d.Currency).Code
	v := DashboardView{
		Currency: code,
		Wallet: WalletView{
			PublicWallet:  d.PublicWallet,
			CollectedText: currency.Format(d.PublicWallet.TotalCollectedForeign, code),
			SpentText:     currency.Format(d.PublicWallet.TotalSpentForeign, code),
			RemainingText: currency.Format(d.PublicWallet.RemainingForeign, code),
			Progress:      trip.Progress(d.PublicWallet),
		},
		Members:    make([]MemberView, 0, len(d.MembersWalletStatus)),
		Payments:   make([]PaymentView, 0, len(d.RecentPayments)),
		Pagination: d.Pagination,
	}

	for _, m := range d.MembersWalletStatus {
		v.Members = append(v.Members, memberView(m, code))
	}
	if d.MyPublicStatus != nil {
		me := memberView(*d.MyPublicStatus, code)
		v.Me = &me
	}
	for _, p := range d.RecentPayments {
		v.Payments = append(v.Payments, paymentView(p))
	}
	return v
}

func memberView(m api.MemberWalletStatus, code string) MemberView {
	return MemberView{
		MemberWalletStatus: m,
		ContributedText:    currency.Format(m.ContributedForeign, code),
		SpentText:          currency.Format(m.SpentForeign, code),
		PersonalText:       currency.FormatInt(m.IndividualSpentKRW, currency.DefaultCode),
	}
}

func paymentView(p api.Payment) PaymentView {
	pv := PaymentView{
		Payment:      p,
		OriginalText: currency.Format(p.OriginalPrice, p.Currency),
	}
	switch {
	case currency.IsHome(p.Currency):
		pv.KRWText = currency.Format(p.OriginalPrice, currency.DefaultCode)
	case p.Price != nil:
		pv.KRWText = currency.Format(decimal.NewFromInt(*p.Price), currency.DefaultCode)
	}
	return pv
}
