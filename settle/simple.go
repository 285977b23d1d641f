package settle

import "strings"

// genericNamePrefixes mark auto-generated placeholder names.
var genericNamePrefixes = []string{"멤버", "사람", "참여자"}

// IsGenericName reports whether name looks like a placeholder ("멤버1",
// "사람 2", "3번"). This is a prefix heuristic: a real name that happens to
// start with one of the prefixes also matches.
func IsGenericName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	if trimmed[0] >= '0' && trimmed[0] <= '9' {
		return true
	}
	for _, prefix := range genericNamePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// NonLeaders filters out the leader rows.
func NonLeaders(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsLeader {
			out = append(out, e)
		}
	}
	return out
}

// IsSimpleSplit reports whether every non-leader member has a placeholder
// name and owes the same absolute amount under their active rounding mode,
// so the list can be collapsed into one summary.
func IsSimpleSplit(entries []Entry, toggles TipToggles) bool {
	members := NonLeaders(entries)
	if len(members) == 0 {
		return false
	}

	var first int64
	for i, m := range members {
		if !IsGenericName(m.Name) {
			return false
		}
		amount := abs(ResolveAmount(m, toggles.IsTipped(m.MemberID, m.Name)))
		if i == 0 {
			first = amount
			continue
		}
		if amount != first {
			return false
		}
	}
	return true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
