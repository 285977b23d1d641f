package settle

import "strings"

// ToggleKey keys per-member UI state by id, falling back to the name for
// members that have no id yet.
func ToggleKey(id MemberID, name string) string {
	if id != "" {
		return "id:" + string(id)
	}
	return "name:" + strings.TrimSpace(name)
}

// TipToggles records which members view the rounded-up ("tipped") amount.
// It lives as long as one view and is never persisted.
type TipToggles map[string]bool

// ParseTipToggles builds toggles from raw keys. "id:12" and "name:철수" name
// the kind of key explicitly; a bare key such as "12" is stored as both, and
// IsTipped only ever consults one of them per member.
func ParseTipToggles(raw []string) TipToggles {
	t := TipToggles{}
	for _, part := range raw {
		for _, k := range strings.Split(part, ",") {
			k = strings.TrimSpace(k)
			switch {
			case k == "":
			case strings.HasPrefix(k, "id:"):
				if id := strings.TrimSpace(strings.TrimPrefix(k, "id:")); id != "" {
					t[ToggleKey(MemberID(id), "")] = true
				}
			case strings.HasPrefix(k, "name:"):
				if name := strings.TrimSpace(strings.TrimPrefix(k, "name:")); name != "" {
					t[ToggleKey("", name)] = true
				}
			default:
				t[ToggleKey(MemberID(k), "")] = true
				t[ToggleKey("", k)] = true
			}
		}
	}
	return t
}

// Set stores the flag for a member.
func (t TipToggles) Set(id MemberID, name string, tipped bool) {
	t[ToggleKey(id, name)] = tipped
}

// Toggle flips the flag for a member and returns the new value.
func (t TipToggles) Toggle(id MemberID, name string) bool {
	v := !t.IsTipped(id, name)
	t.Set(id, name, v)
	return v
}

// IsTipped reports the flag for a member. Members with an id are matched by
// id only; the name is the key while the id is absent.
func (t TipToggles) IsTipped(id MemberID, name string) bool {
	if t == nil {
		return false
	}
	return t[ToggleKey(id, name)]
}
