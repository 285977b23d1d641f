// Package trip turns trip-creation input into backend requests and derives
// budget progress from wallet totals.
package trip

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"jeongsan/api"
	"jeongsan/settle"
)

// Mode selects how per-member contributions are entered.
type Mode string

const (
	ModeEqual      Mode = "EQUAL"
	ModeIndividual Mode = "INDIVIDUAL"
)

// Member is a trip participant. ID is the server id and stays 0 until the
// member exists on the backend; TempID identifies it before that.
type Member struct {
	ID       int64  `json:"id,omitempty"`
	TempID   string `json:"temp_id,omitempty"`
	Name     string `json:"name"`
	IsLeader bool   `json:"is_leader"`
}

// Key is the stable key of the member inside a wizard.
func (m Member) Key() string {
	id := settle.MemberID(m.TempID)
	if m.ID > 0 {
		id = settle.MemberID(strconv.FormatInt(m.ID, 10))
	}
	return settle.ToggleKey(id, m.Name)
}

// Wizard holds the contribution step of trip creation.
type Wizard struct {
	Members           []Member          `json:"members"`
	Mode              Mode              `json:"mode"`
	EqualAmount       string            `json:"equal_amount"`
	IndividualAmounts map[string]string `json:"individual_amounts"`
	// IndividualLocked is set when the user came back to equal mode after
	// typing individual amounts; those amounts stay authoritative.
	IndividualLocked bool `json:"individual_locked"`
}

// NewWizard returns an empty wizard in equal mode.
func NewWizard() *Wizard {
	return &Wizard{
		Mode:              ModeEqual,
		IndividualAmounts: map[string]string{},
	}
}

// AddMember appends a freshly typed member. The first member is the leader.
func (w *Wizard) AddMember(name string) (Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Member{}, invalid("name", ErrEmptyName)
	}
	m := Member{
		TempID:   uuid.NewString(),
		Name:     name,
		IsLeader: len(w.Members) == 0,
	}
	w.Members = append(w.Members, m)
	return m, nil
}

// SeedMembers replaces the member list with an existing meeting's members.
// When none is flagged as leader the first one becomes leader.
func (w *Wizard) SeedMembers(members []Member) {
	w.Members = make([]Member, len(members))
	copy(w.Members, members)
	hasLeader := false
	for _, m := range w.Members {
		if m.IsLeader {
			hasLeader = true
			break
		}
	}
	if !hasLeader && len(w.Members) > 0 {
		w.Members[0].IsLeader = true
	}
	w.IndividualAmounts = map[string]string{}
	w.IndividualLocked = false
}

// RemoveMember drops the member with the given key. Removing the leader hands
// the role to the next member in order.
func (w *Wizard) RemoveMember(key string) error {
	idx := w.indexOf(key)
	if idx < 0 {
		return invalid("member", fmt.Errorf("%w: %s", ErrUnknownMember, key))
	}
	wasLeader := w.Members[idx].IsLeader
	w.Members = append(w.Members[:idx], w.Members[idx+1:]...)
	delete(w.IndividualAmounts, key)
	if wasLeader && len(w.Members) > 0 {
		w.Members[0].IsLeader = true
	}
	return nil
}

// Leader returns the leader, if any.
func (w *Wizard) Leader() (Member, bool) {
	for _, m := range w.Members {
		if m.IsLeader {
			return m, true
		}
	}
	return Member{}, false
}

// SetEqualAmount sets the shared per-person amount.
func (w *Wizard) SetEqualAmount(amount string) {
	w.EqualAmount = strings.TrimSpace(amount)
}

// SetEqualTotal splits total evenly. Each share is floor(total / members), so
// the recomputed total may be smaller than what was typed.
func (w *Wizard) SetEqualTotal(total int64) {
	n := int64(len(w.Members))
	if n == 0 || total <= 0 {
		w.EqualAmount = "0"
		return
	}
	w.EqualAmount = strconv.FormatInt(total/n, 10)
}

// SetIndividualAmount types an amount for one member.
func (w *Wizard) SetIndividualAmount(key, amount string) error {
	if w.indexOf(key) < 0 {
		return invalid("member", fmt.Errorf("%w: %s", ErrUnknownMember, key))
	}
	if w.IndividualAmounts == nil {
		w.IndividualAmounts = map[string]string{}
	}
	w.IndividualAmounts[key] = strings.TrimSpace(amount)
	return nil
}

// SwitchMode changes the entry mode. Going to individual mode seeds every
// member with the current equal amount; going back keeps the individual
// amounts authoritative and locks the equal field.
func (w *Wizard) SwitchMode(mode Mode) error {
	switch mode {
	case ModeEqual, ModeIndividual:
	default:
		return invalid("mode", fmt.Errorf("%w: %q", ErrUnknownMode, mode))
	}
	if mode == w.Mode {
		return nil
	}

	if mode == ModeIndividual {
		if w.IndividualAmounts == nil {
			w.IndividualAmounts = map[string]string{}
		}
		if !w.IndividualLocked {
			for _, m := range w.Members {
				w.IndividualAmounts[m.Key()] = w.EqualAmount
			}
		}
	} else {
		w.IndividualLocked = len(w.IndividualAmounts) > 0
	}
	w.Mode = mode
	return nil
}

// ResetIndividual discards typed individual amounts and unlocks the equal field.
func (w *Wizard) ResetIndividual() {
	w.IndividualAmounts = map[string]string{}
	w.IndividualLocked = false
	if w.Mode == ModeIndividual {
		w.Mode = ModeEqual
	}
}

// EqualAmountEditable reports whether the equal amount field accepts input.
func (w *Wizard) EqualAmountEditable() bool {
	return w.Mode == ModeEqual && !w.IndividualLocked
}

func (w *Wizard) usesIndividual() bool {
	return w.Mode == ModeIndividual || w.IndividualLocked
}

// AmountFor returns the raw amount text active for a member.
func (w *Wizard) AmountFor(m Member) string {
	if w.usesIndividual() {
		return w.IndividualAmounts[m.Key()]
	}
	return w.EqualAmount
}

// Total is the sum of the active per-member amounts. Unparsable entries count
// as zero here; Validate reports them.
func (w *Wizard) Total() int64 {
	var total int64
	for _, m := range w.Members {
		v, err := ParseAmount(w.AmountFor(m))
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// Validate checks the wizard can be submitted.
func (w *Wizard) Validate() error {
	if len(w.Members) == 0 {
		return invalid("members", ErrNoMembers)
	}
	for i, m := range w.Members {
		if strings.TrimSpace(m.Name) == "" {
			return invalid(fmt.Sprintf("members[%d].name", i), ErrEmptyName)
		}
		v, err := ParseAmount(w.AmountFor(m))
		if err != nil {
			return invalid(fmt.Sprintf("members[%d].amount", i), err)
		}
		if v <= 0 {
			return invalid(fmt.Sprintf("members[%d].amount", i), ErrNonPositiveAmount)
		}
	}
	return nil
}

// Contributions normalizes the wizard into the list the backend expects.
// Members seeded from an existing meeting keep their server ids; freshly
// typed members are numbered from 1 in order.
func (w *Wizard) Contributions() ([]api.Contribution, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	seeded := true
	for _, m := range w.Members {
		if m.ID <= 0 {
			seeded = false
			break
		}
	}

	out := make([]api.Contribution, 0, len(w.Members))
	for i, m := range w.Members {
		amount, _ := ParseAmount(w.AmountFor(m))
		id := int64(i + 1)
		if seeded {
			id = m.ID
		}
		out = append(out, api.Contribution{
			MemberID:   id,
			AmountKRW:  amount,
			MemberName: strings.TrimSpace(m.Name),
		})
	}
	return out, nil
}

func (w *Wizard) indexOf(key string) int {
	for i, m := range w.Members {
		if m.Key() == key {
			return i
		}
	}
	return -1
}

// ParseAmount parses a typed KRW amount. Grouping commas and spaces are
// ignored; anything else but digits is rejected. Empty input is zero.
func ParseAmount(raw string) (int64, error) {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0, nil
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}
