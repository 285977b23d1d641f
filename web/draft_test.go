package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbt "jeongsan/db/db"
)

func sampleDraft() map[string]any {
	return map[string]any{
		"name":          "오사카 여행",
		"country_code":  "jp",
		"total_foreign": 30000,
		"mode":          "EQUAL",
		"equal_amount":  "100,000",
		"members": []map[string]any{
			{"name": "총무"},
			{"name": "철수"},
			{"name": "영희"},
		},
	}
}

func decodeDraft(t *testing.T, env envelope) dbt.Draft {
	t.Helper()
	var d dbt.Draft
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func TestDraftLifecycle(t *testing.T) {
	r := newTestServer(&fakeBackend{}).Router()

	w, env := doJSON(t, r, http.MethodPost, "/api/drafts", sampleDraft())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	d := decodeDraft(t, env)
	assert.Equal(t, "JP", d.CountryCode)
	assert.True(t, d.Members[0].IsLeader, "first member leads by default")
	path := "/api/drafts/" + d.ID.String()

	w, env = doJSON(t, r, http.MethodGet, "/api/drafts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dbt.DraftInfo
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "오사카 여행", list[0].Name)

	body := sampleDraft()
	body["name"] = "도쿄 여행"
	w, env = doJSON(t, r, http.MethodPut, path, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "도쿄 여행", decodeDraft(t, env).Name)

	w, env = doJSON(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "도쿄 여행", decodeDraft(t, env).Name)

	w, _ = doJSON(t, r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, env.Code)
}

func TestDraftRejectsBadInput(t *testing.T) {
	r := newTestServer(&fakeBackend{}).Router()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "script in name", mutate: func(b map[string]any) { b["name"] = "<script>" }},
		{name: "unknown mode", mutate: func(b map[string]any) { b["mode"] = "RANDOM" }},
		{name: "empty member name", mutate: func(b map[string]any) {
			b["members"] = []map[string]any{{"name": " "}}
		}},
		{name: "long country code", mutate: func(b map[string]any) { b["country_code"] = "JPJPJPJPJ" }},
		{name: "long equal amount", mutate: func(b map[string]any) { b["equal_amount"] = strings.Repeat("1", 33) }},
		{name: "long member amount", mutate: func(b map[string]any) {
			b["members"] = []map[string]any{{"name": "총무", "amount": strings.Repeat("9", 33)}}
		}},
		{name: "long temp id", mutate: func(b map[string]any) {
			b["members"] = []map[string]any{{"name": "총무", "temp_id": strings.Repeat("t", 65)}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := sampleDraft()
			tt.mutate(body)
			w, env := doJSON(t, r, http.MethodPost, "/api/drafts", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, CodeInvalidParam, env.Code)
		})
	}

	w, _ := doJSON(t, r, http.MethodGet, "/api/drafts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSwitchDraftMode(t *testing.T) {
	r := newTestServer(&fakeBackend{}).Router()
	_, env := doJSON(t, r, http.MethodPost, "/api/drafts", sampleDraft())
	path := "/api/drafts/" + decodeDraft(t, env).ID.String() + "/mode"

	w, env := doJSON(t, r, http.MethodPost, path, map[string]any{"mode": "INDIVIDUAL"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Draft               dbt.Draft `json:"draft"`
		Total               int64     `json:"total"`
		EqualAmountEditable bool      `json:"equal_amount_editable"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "INDIVIDUAL", out.Draft.Mode)
	assert.Equal(t, int64(300000), out.Total)
	for _, m := range out.Draft.Members {
		assert.True(t, m.HasAmount)
		assert.Equal(t, "100,000", m.Amount)
	}
	assert.False(t, out.EqualAmountEditable)

	w, env = doJSON(t, r, http.MethodPost, path, map[string]any{"mode": "EQUAL"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Draft.IndividualLocked, "typed individual amounts stay authoritative")
	assert.False(t, out.EqualAmountEditable)

	w, env = doJSON(t, r, http.MethodPost, path, map[string]any{"mode": "EQUAL", "reset": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.False(t, out.Draft.IndividualLocked)
	assert.True(t, out.EqualAmountEditable)

	w, env = doJSON(t, r, http.MethodPost, path, map[string]any{"mode": "HALF"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidParam, env.Code)
}

func TestSubmitDraft(t *testing.T) {
	backend := &fakeBackend{meetingID: 77}
	r := newTestServer(backend).Router()
	_, env := doJSON(t, r, http.MethodPost, "/api/drafts", sampleDraft())
	id := decodeDraft(t, env).ID.String()

	w, env := doJSON(t, r, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"meeting_id":77}`, string(env.Data))

	require.Len(t, backend.created, 1)
	req := backend.created[0]
	assert.Equal(t, "JP", req.CountryCode)
	require.Len(t, req.Contributions, 3)
	for i, c := range req.Contributions {
		assert.Equal(t, int64(i+1), c.MemberID, "fresh members are numbered by position")
		assert.Equal(t, int64(100000), c.AmountKRW)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "submitted draft is removed")
}

func TestSubmitDraftKeepsDraftOnFailure(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestServer(backend).Router()
	body := sampleDraft()
	body["equal_amount"] = ""
	_, env := doJSON(t, r, http.MethodPost, "/api/drafts", body)
	id := decodeDraft(t, env).ID.String()

	w, env := doJSON(t, r, http.MethodPost, "/api/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidParam, env.Code)
	assert.Empty(t, backend.created, "validation fails before any backend call")

	w, _ = doJSON(t, r, http.MethodGet, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTripSeededMembersKeepIDs(t *testing.T) {
	backend := &fakeBackend{meetingID: 5}
	r := newTestServer(backend).Router()

	w, env := doJSON(t, r, http.MethodPost, "/api/trips", map[string]any{
		"country_code":  "US",
		"total_foreign": 1500.5,
		"mode":          "INDIVIDUAL",
		"members": []map[string]any{
			{"member_id": 11, "name": "총무", "is_leader": true, "amount": "50000"},
			{"member_id": 12, "name": "철수", "amount": "70000"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"meeting_id":5}`, string(env.Data))

	require.Len(t, backend.created, 1)
	contribs := backend.created[0].Contributions
	require.Len(t, contribs, 2)
	assert.Equal(t, int64(11), contribs[0].MemberID)
	assert.Equal(t, int64(50000), contribs[0].AmountKRW)
	assert.Equal(t, int64(12), contribs[1].MemberID)
	assert.Equal(t, int64(70000), contribs[1].AmountKRW)
}

func TestCreateTripWithoutMembers(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestServer(backend).Router()
	w, env := doJSON(t, r, http.MethodPost, "/api/trips", map[string]any{"country_code": "JP", "total_foreign": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidParam, env.Code)
	assert.Empty(t, backend.created)
}
