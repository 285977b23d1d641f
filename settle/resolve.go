package settle

// Accessor reads one optional field of an Entry; nil means absent.
type Accessor[T any] func(e *Entry) *T

// Chain is an ordered list of accessors; the first present value wins.
type Chain[T any] []Accessor[T]

// First walks the chain and returns the first present value.
func (c Chain[T]) First(e *Entry) *T {
	for _, get := range c {
		if v := get(e); v != nil {
			return v
		}
	}
	return nil
}

func plainAmount(e *Entry) *int64             { return &e.Amount }
func tippedAmount(e *Entry) *int64            { return e.TippedAmount }
func settlementTippedAmount(e *Entry) *int64  { return e.SettlementTippedAmount }
func depositCopyText(e *Entry) *string        { return e.DepositCopyText }
func tippedDepositCopyText(e *Entry) *string  { return e.TippedDepositCopyText }
func tossDepositLink(e *Entry) *string        { return e.TossDepositLink }
func tippedTossDepositLink(e *Entry) *string  { return e.TippedTossDepositLink }
func kakaoDepositLink(e *Entry) *string       { return e.KakaoDepositLink }
func tippedKakaoDepositLink(e *Entry) *string { return e.TippedKakaoDepositLink }

// Field priority per rounding mode.
var (
	AmountChain       = Chain[int64]{plainAmount}
	TippedAmountChain = Chain[int64]{tippedAmount, settlementTippedAmount, plainAmount}

	CopyTextChain       = Chain[string]{depositCopyText}
	TippedCopyTextChain = Chain[string]{tippedDepositCopyText, depositCopyText}

	TossLinkChain       = Chain[string]{tossDepositLink}
	TippedTossLinkChain = Chain[string]{tippedTossDepositLink, tossDepositLink}

	KakaoLinkChain       = Chain[string]{kakaoDepositLink}
	TippedKakaoLinkChain = Chain[string]{tippedKakaoDepositLink, kakaoDepositLink}
)

// nullLiteral is how the backend sometimes serializes a missing link.
const nullLiteral = "null"

// SanitizeLink maps empty and "null" links to nil.
func SanitizeLink(link *string) *string {
	if link == nil || *link == "" || *link == nullLiteral {
		return nil
	}
	v := *link
	return &v
}

// ResolveAmount returns the amount active under the given rounding mode.
func ResolveAmount(e Entry, tipped bool) int64 {
	chain := AmountChain
	if tipped {
		chain = TippedAmountChain
	}
	return *chain.First(&e)
}

// Resolve applies the rounding mode to e. It has no side effects.
func Resolve(e Entry, tipped bool) Resolved {
	copyChain, tossChain, kakaoChain := CopyTextChain, TossLinkChain, KakaoLinkChain
	if tipped {
		copyChain, tossChain, kakaoChain = TippedCopyTextChain, TippedTossLinkChain, TippedKakaoLinkChain
	}

	r := Resolved{
		Amount:    ResolveAmount(e, tipped),
		TossLink:  SanitizeLink(tossChain.First(&e)),
		KakaoLink: SanitizeLink(kakaoChain.First(&e)),
	}
	r.IsReceiving = r.Amount < 0

	// only payers copy account info
	if !r.IsReceiving {
		if text := copyChain.First(&e); text != nil && *text != "" {
			v := *text
			r.DepositCopyText = &v
		}
	}

	switch {
	case r.TossLink != nil || r.KakaoLink != nil:
		r.Action = ActionPayLink
	case r.DepositCopyText != nil:
		r.Action = ActionCopyText
	default:
		r.Action = ActionNone
	}
	return r
}

// ResolveWith resolves e under the flag stored for it in toggles.
func ResolveWith(e Entry, toggles TipToggles) Resolved {
	return Resolve(e, toggles.IsTipped(e.MemberID, e.Name))
}
