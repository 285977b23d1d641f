package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeongsan/settle"
	"jeongsan/trip"
)

func TestParseCSVToMembers(t *testing.T) {
	rows := [][]string{
		{"name", "amount", "member_id"},
		{"총무", "100,000", "11"},
		{" 철수 ", "50000", ""},
		{"영희", ""},
	}
	members, err := ParseCSVToMembers(rows)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, int64(11), members[0].Member.ID)
	assert.Equal(t, "철수", members[1].Member.Name)
	assert.NotEmpty(t, members[1].Member.TempID)
	assert.Equal(t, "", members[2].Amount)
}

func TestParseCSVToMembersErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{name: "empty", rows: nil},
		{name: "too few columns", rows: [][]string{{"h"}, {"a"}}},
		{name: "bad amount", rows: [][]string{{"h", "h"}, {"a", "12.5"}}},
		{name: "bad id", rows: [][]string{{"h", "h", "h"}, {"a", "1", "x"}}},
		{name: "empty name", rows: [][]string{{"h", "h"}, {" ", "1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSVToMembers(tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestRunContribIndividual(t *testing.T) {
	in := strings.NewReader("name,amount\n총무,\"100,000\"\n철수,50000\n")
	var out bytes.Buffer
	require.NoError(t, runContrib(in, &out, 0))

	var sheet ContributionSheet
	require.NoError(t, json.Unmarshal(out.Bytes(), &sheet))
	assert.Equal(t, trip.ModeIndividual, sheet.Mode)
	assert.Equal(t, int64(150000), sheet.Total)
	require.Len(t, sheet.Contributions, 2)
	assert.Equal(t, int64(1), sheet.Contributions[0].MemberID)
	assert.Equal(t, int64(100000), sheet.Contributions[0].AmountKRW)
	assert.Equal(t, int64(2), sheet.Contributions[1].MemberID)
}

func TestRunContribEqualTotal(t *testing.T) {
	in := strings.NewReader("name,amount,member_id\nA,,4\nB,,5\nC,,6\n")
	var out bytes.Buffer
	require.NoError(t, runContrib(in, &out, 100000))

	var sheet ContributionSheet
	require.NoError(t, json.Unmarshal(out.Bytes(), &sheet))
	assert.Equal(t, trip.ModeEqual, sheet.Mode)
	assert.Equal(t, int64(99999), sheet.Total, "floor split drops the remainder")
	require.Len(t, sheet.Contributions, 3)
	for i, c := range sheet.Contributions {
		assert.Equal(t, int64(4+i), c.MemberID, "server ids are kept when every member has one")
		assert.Equal(t, int64(33333), c.AmountKRW)
	}
}

func TestRunContribMissingAmount(t *testing.T) {
	in := strings.NewReader("name,amount\nA,1000\nB,\n")
	err := runContrib(in, &bytes.Buffer{}, 0)
	require.Error(t, err)
	assert.True(t, trip.IsValidationError(err))
}

const sampleResultJSON = `{
	"meeting": {"id": 8, "name": "오사카"},
	"trip_cost": {"total_krw": 42000, "public_krw": 30000, "individual_krw": 12000},
	"final_settlement": [
		{"member_id": 1, "member_name": "총무", "is_leader": true, "amount": -28000},
		{"member_id": 2, "member_name": "철수", "amount": 14000, "tipped_amount": 15000, "toss_deposit_link": "https://toss.me/x"},
		{"member_id": 3, "member_name": "영희", "amount": 14000, "deposit_copy_text": "국민 123"}
	]
}`

func TestRunSettleText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSettle(strings.NewReader(sampleResultJSON), &out, settle.ParseTipToggles([]string{"2"}), false))

	text := out.String()
	assert.Contains(t, text, "total 42,000원")
	assert.Contains(t, text, "leader 총무")
	assert.Regexp(t, `철수\s+sends\s+15,000원\s+PAY_LINK\s+\(tipped\)`, text)
	assert.Regexp(t, `영희\s+sends\s+14,000원\s+COPY_TEXT`, text)
}

func TestRunSettleSimpleSplit(t *testing.T) {
	input := `{
		"meeting": {"name": "모임"},
		"final_settlement": [
			{"member_id": 1, "member_name": "총무", "is_leader": true, "amount": -20000},
			{"member_id": 2, "member_name": "멤버1", "amount": 10000},
			{"member_id": 3, "member_name": "멤버2", "amount": 10000}
		]
	}`
	var out bytes.Buffer
	require.NoError(t, runSettle(strings.NewReader(input), &out, nil, false))
	assert.Contains(t, out.String(), "everyone sends 10,000원 to the leader")
}

func TestRunSettleJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSettle(strings.NewReader(sampleResultJSON), &out, nil, true))

	var v struct {
		Rows []struct {
			Name   string `json:"member_name"`
			Amount int64  `json:"amount"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	require.Len(t, v.Rows, 2)
	assert.Equal(t, int64(14000), v.Rows[0].Amount)

	assert.Error(t, runSettle(strings.NewReader("{"), &out, nil, false))
}

func TestFormatCommand(t *testing.T) {
	cmd := formatCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"1234.5", "JPY"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1,235¥\n", out.String())

	cmd = formatCommand()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"1234.5", "JPY", "--decimals", "1"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1,234.5¥\n", out.String())
}
