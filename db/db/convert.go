package db

import (
	"jeongsan/api"
	"jeongsan/trip"
)

// Wizard rebuilds the wizard state the draft was saved from.
func (d *Draft) Wizard() *trip.Wizard {
	w := trip.NewWizard()
	w.Mode = trip.Mode(d.Mode)
	if w.Mode == "" {
		w.Mode = trip.ModeEqual
	}
	w.EqualAmount = d.EqualAmount
	w.IndividualLocked = d.IndividualLocked

	w.Members = make([]trip.Member, 0, len(d.Members))
	for _, m := range d.Members {
		member := trip.Member{ID: m.MemberID, TempID: m.TempID, Name: m.Name, IsLeader: m.IsLeader}
		w.Members = append(w.Members, member)
		if m.HasAmount {
			w.IndividualAmounts[member.Key()] = m.Amount
		}
	}
	return w
}

// SetWizard copies the wizard state into the draft.
func (d *Draft) SetWizard(w *trip.Wizard) {
	d.Mode = string(w.Mode)
	d.EqualAmount = w.EqualAmount
	d.IndividualLocked = w.IndividualLocked

	d.Members = make([]DraftMember, 0, len(w.Members))
	for _, m := range w.Members {
		amount, ok := w.IndividualAmounts[m.Key()]
		d.Members = append(d.Members, DraftMember{
			MemberID:  m.ID,
			TempID:    m.TempID,
			Name:      m.Name,
			IsLeader:  m.IsLeader,
			Amount:    amount,
			HasAmount: ok,
		})
	}
}

// CreateInput is the trip creation input the draft describes.
func (d *Draft) CreateInput() trip.CreateInput {
	return trip.CreateInput{
		Wizard:          d.Wizard(),
		TotalForeign:    d.TotalForeign,
		CountryCode:     d.CountryCode,
		AdvancePayments: d.AdvancePayments,
	}
}

// Clone deep-copies the draft.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Members = make([]DraftMember, len(d.Members))
	copy(c.Members, d.Members)
	c.AdvancePayments = make([]api.AdvancePayment, len(d.AdvancePayments))
	copy(c.AdvancePayments, d.AdvancePayments)
	return &c
}
