package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWizard(t *testing.T, names ...string) *Wizard {
	t.Helper()
	w := NewWizard()
	for _, n := range names {
		_, err := w.AddMember(n)
		require.NoError(t, err)
	}
	return w
}

func TestAddMemberFirstIsLeader(t *testing.T) {
	w := newWizard(t, "총무", "철수", "영희")
	leader, ok := w.Leader()
	require.True(t, ok)
	assert.Equal(t, "총무", leader.Name)
	assert.False(t, w.Members[1].IsLeader)
	assert.NotEmpty(t, w.Members[1].TempID)

	_, err := w.AddMember("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestEqualSplitTruncation(t *testing.T) {
	w := newWizard(t, "a", "b", "c")
	w.SetEqualTotal(100000)
	assert.Equal(t, "33333", w.EqualAmount)

	contributions, err := w.Contributions()
	require.NoError(t, err)
	require.Len(t, contributions, 3)
	for _, c := range contributions {
		assert.Equal(t, int64(33333), c.AmountKRW)
	}

	require.NoError(t, w.SwitchMode(ModeIndividual))
	assert.Equal(t, int64(99999), w.Total(), "truncation is preserved")
}

func TestSwitchModeSeedsIndividualAmounts(t *testing.T) {
	w := newWizard(t, "a", "b")
	w.SetEqualAmount("50000")
	assert.True(t, w.EqualAmountEditable())

	require.NoError(t, w.SwitchMode(ModeIndividual))
	for _, m := range w.Members {
		assert.Equal(t, "50000", w.IndividualAmounts[m.Key()])
	}
	assert.False(t, w.EqualAmountEditable())

	require.NoError(t, w.SetIndividualAmount(w.Members[1].Key(), "70,000"))
	assert.Equal(t, int64(120000), w.Total())

	// back to equal: individual amounts stay the source of truth
	require.NoError(t, w.SwitchMode(ModeEqual))
	assert.False(t, w.EqualAmountEditable())
	assert.Equal(t, int64(120000), w.Total())
	contributions, err := w.Contributions()
	require.NoError(t, err)
	assert.Equal(t, int64(70000), contributions[1].AmountKRW)

	// re-entering individual mode does not overwrite typed amounts
	w.SetEqualAmount("1")
	require.NoError(t, w.SwitchMode(ModeIndividual))
	assert.Equal(t, "70,000", w.IndividualAmounts[w.Members[1].Key()])

	w.ResetIndividual()
	assert.Equal(t, ModeEqual, w.Mode)
	assert.True(t, w.EqualAmountEditable())
	assert.Equal(t, int64(2), w.Total())
}

func TestSwitchModeUnknown(t *testing.T) {
	w := newWizard(t, "a")
	err := w.SwitchMode("HALF")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.True(t, IsValidationError(err))
}

func TestValidate(t *testing.T) {
	t.Run("no members", func(t *testing.T) {
		err := NewWizard().Validate()
		assert.ErrorIs(t, err, ErrNoMembers)
		assert.True(t, IsValidationError(err))
	})

	t.Run("zero equal amount", func(t *testing.T) {
		w := newWizard(t, "a", "b")
		assert.ErrorIs(t, w.Validate(), ErrNonPositiveAmount)
	})

	t.Run("one individual amount missing", func(t *testing.T) {
		w := newWizard(t, "a", "b")
		require.NoError(t, w.SwitchMode(ModeIndividual))
		require.NoError(t, w.SetIndividualAmount(w.Members[0].Key(), "1000"))
		err := w.Validate()
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
		var v *ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "members[1].amount", v.Field)
	})

	t.Run("non digit amount", func(t *testing.T) {
		w := newWizard(t, "a")
		w.SetEqualAmount("-500")
		assert.ErrorIs(t, w.Validate(), ErrInvalidAmount)
	})

	t.Run("valid", func(t *testing.T) {
		w := newWizard(t, "a")
		w.SetEqualAmount("500")
		assert.NoError(t, w.Validate())
	})
}

func TestContributionIDs(t *testing.T) {
	t.Run("fresh members are numbered", func(t *testing.T) {
		w := newWizard(t, "총무", "철수")
		w.SetEqualAmount("10000")
		got, err := w.Contributions()
		require.NoError(t, err)
		assert.Equal(t, int64(1), got[0].MemberID)
		assert.Equal(t, int64(2), got[1].MemberID)
		assert.Equal(t, "철수", got[1].MemberName)
	})

	t.Run("seeded members keep server ids", func(t *testing.T) {
		w := NewWizard()
		w.SeedMembers([]Member{{ID: 41, Name: "총무"}, {ID: 57, Name: "철수"}})
		assert.True(t, w.Members[0].IsLeader)
		w.SetEqualAmount("10000")
		got, err := w.Contributions()
		require.NoError(t, err)
		assert.Equal(t, int64(41), got[0].MemberID)
		assert.Equal(t, int64(57), got[1].MemberID)
	})
}

func TestRemoveMember(t *testing.T) {
	w := newWizard(t, "총무", "철수")
	leaderKey := w.Members[0].Key()
	require.NoError(t, w.SetIndividualAmount(leaderKey, "100"))
	require.NoError(t, w.RemoveMember(leaderKey))
	require.Len(t, w.Members, 1)
	assert.True(t, w.Members[0].IsLeader)
	_, ok := w.IndividualAmounts[leaderKey]
	assert.False(t, ok)

	assert.ErrorIs(t, w.RemoveMember("id:missing"), ErrUnknownMember)
	assert.ErrorIs(t, w.SetIndividualAmount("id:missing", "1"), ErrUnknownMember)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "12000", want: 12000},
		{raw: "1,234,000", want: 1234000},
		{raw: " 5 000 ", want: 5000},
		{raw: "12.5", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
