package settle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MemberID is the opaque member identifier. The backend sends numbers, while
// members created before submission carry client-generated string ids.
type MemberID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *MemberID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("member id: %w", err)
		}
		*id = MemberID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("member id: %w", err)
	}
	*id = MemberID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id MemberID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Direction tells which way money moves for a settlement row.
type Direction string

const (
	DirectionSend    Direction = "SEND"
	DirectionReceive Direction = "RECEIVE"
	DirectionNone    Direction = "NONE"
)

// Entry is one member's settlement position as returned by the backend.
// Amount is in whole KRW: positive means the member owes the leader,
// negative means the leader owes the member.
type Entry struct {
	MemberID  MemberID  `json:"member_id"`
	Name      string    `json:"member_name"`
	IsLeader  bool      `json:"is_leader"`
	Direction Direction `json:"direction,omitempty"`

	Amount                 int64  `json:"amount"`
	TippedAmount           *int64 `json:"tipped_amount,omitempty"`
	SettlementTippedAmount *int64 `json:"settlement_tipped_amount,omitempty"`

	DepositCopyText       *string `json:"deposit_copy_text,omitempty"`
	TippedDepositCopyText *string `json:"tipped_deposit_copy_text,omitempty"`

	TossDepositLink        *string `json:"toss_deposit_link,omitempty"`
	KakaoDepositLink       *string `json:"kakao_deposit_link,omitempty"`
	TippedTossDepositLink  *string `json:"tipped_toss_deposit_link,omitempty"`
	TippedKakaoDepositLink *string `json:"tipped_kakao_deposit_link,omitempty"`
}

// Key identifies the entry in a TipToggles set.
func (e Entry) Key() string {
	return ToggleKey(e.MemberID, e.Name)
}

// Action is what the payer is offered for settling up.
type Action string

const (
	ActionPayLink  Action = "PAY_LINK"
	ActionCopyText Action = "COPY_TEXT"
	ActionNone     Action = "NONE"
)

// Resolved is an Entry with the rounding mode applied.
type Resolved struct {
	Amount          int64   `json:"amount"`
	DepositCopyText *string `json:"deposit_copy_text"`
	TossLink        *string `json:"toss_link"`
	KakaoLink       *string `json:"kakao_link"`
	IsReceiving     bool    `json:"is_receiving"`
	Action          Action  `json:"action"`
}
