package web

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jeongsan/api"
	dbt "jeongsan/db/db"
	"jeongsan/trip"
)

// draftBody is the wizard state the client sends for drafts and trip
// creation.
type draftBody struct {
	Name             string               `json:"name"`
	CountryCode      string               `json:"country_code"`
	TotalForeign     decimal.Decimal      `json:"total_foreign"`
	Mode             string               `json:"mode"`
	EqualAmount      string               `json:"equal_amount"`
	IndividualLocked bool                 `json:"individual_locked"`
	Members          []dbt.DraftMember    `json:"members"`
	AdvancePayments  []api.AdvancePayment `json:"advance_payments"`
}

// column widths of the draft tables
const (
	maxCountryCodeLen = 8
	maxAmountLen      = 32
	maxTempIDLen      = 64
)

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

func (b draftBody) verify() error {
	if b.Name != "" && !VerifyStringRequest(b.Name) {
		return errors.New("invalid draft name")
	}
	if tooLong(strings.TrimSpace(b.CountryCode), maxCountryCodeLen) {
		return fmt.Errorf("country_code longer than %d characters", maxCountryCodeLen)
	}
	if tooLong(strings.TrimSpace(b.EqualAmount), maxAmountLen) {
		return fmt.Errorf("equal_amount longer than %d characters", maxAmountLen)
	}
	for _, m := range b.Members {
		if tooLong(m.Amount, maxAmountLen) {
			return fmt.Errorf("member amount longer than %d characters", maxAmountLen)
		}
		if tooLong(m.TempID, maxTempIDLen) {
			return fmt.Errorf("member temp_id longer than %d characters", maxTempIDLen)
		}
	}
	switch trip.Mode(b.Mode) {
	case "", trip.ModeEqual, trip.ModeIndividual:
	default:
		return fmt.Errorf("invalid mode %q", b.Mode)
	}
	names := make([]string, 0, len(b.Members))
	for _, m := range b.Members {
		names = append(names, strings.TrimSpace(m.Name))
	}
	if !VerifyStringListRequest(names) {
		return errors.New("invalid member names")
	}
	for _, ap := range b.AdvancePayments {
		if ap.Name != "" && !VerifyStringRequest(ap.Name) {
			return errors.New("invalid advance payment name")
		}
	}
	return nil
}

// applyTo copies the body onto d, leaving identity and timestamps alone.
func (b draftBody) applyTo(d *dbt.Draft) {
	d.Name = strings.TrimSpace(b.Name)
	d.CountryCode = strings.ToUpper(strings.TrimSpace(b.CountryCode))
	d.TotalForeign = b.TotalForeign
	d.Mode = b.Mode
	if d.Mode == "" {
		d.Mode = string(trip.ModeEqual)
	}
	d.EqualAmount = strings.TrimSpace(b.EqualAmount)
	d.IndividualLocked = b.IndividualLocked
	d.Members = b.Members
	if d.Members == nil {
		d.Members = []dbt.DraftMember{}
	}
	d.AdvancePayments = b.AdvancePayments
	if d.AdvancePayments == nil {
		d.AdvancePayments = []api.AdvancePayment{}
	}
	// the first member leads when the client did not pick one
	hasLeader := false
	for i, m := range d.Members {
		hasLeader = hasLeader || m.IsLeader
		if m.Amount != "" {
			d.Members[i].HasAmount = true
		}
	}
	if !hasLeader && len(d.Members) > 0 {
		d.Members[0].IsLeader = true
	}
}

func bindDraft(c *gin.Context) (draftBody, bool) {
	var body draftBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return draftBody{}, false
	}
	if err := body.verify(); err != nil {
		badRequest(c, err.Error())
		return draftBody{}, false
	}
	return body, true
}

func (s *Server) createDraft(c *gin.Context) {
	body, ok := bindDraft(c)
	if !ok {
		return
	}
	now := time.Now().UTC()
	d := &dbt.Draft{DraftInfo: dbt.DraftInfo{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}}
	body.applyTo(d)

	if err := s.drafts.CreateDraft(c.Request.Context(), d); err != nil {
		renderError(c, err)
		return
	}
	created(c, d)
}

func (s *Server) listDrafts(c *gin.Context) {
	drafts, err := s.drafts.ListDrafts(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	success(c, drafts)
}

func (s *Server) getDraft(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	d, err := s.drafts.GetDraft(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	success(c, d)
}

func (s *Server) updateDraft(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	body, ok := bindDraft(c)
	if !ok {
		return
	}
	d, err := s.drafts.GetDraft(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	body.applyTo(d)
	d.UpdatedAt = time.Now().UTC()
	if err := s.drafts.UpdateDraft(c.Request.Context(), d); err != nil {
		renderError(c, err)
		return
	}
	success(c, d)
}

func (s *Server) deleteDraft(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := s.drafts.DeleteDraft(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	success(c, gin.H{"id": id})
}

type modeRequest struct {
	Mode trip.Mode `json:"mode" binding:"required"`
	// Reset drops typed individual amounts before switching.
	Reset bool `json:"reset"`
}

// switchDraftMode runs the wizard's mode transition on a stored draft so the
// equal/individual seeding and locking rules apply server side.
func (s *Server) switchDraftMode(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	d, err := s.drafts.GetDraft(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	w := d.Wizard()
	if req.Reset {
		w.ResetIndividual()
	}
	if err := w.SwitchMode(req.Mode); err != nil {
		renderError(c, err)
		return
	}
	d.SetWizard(w)
	d.UpdatedAt = time.Now().UTC()
	if err := s.drafts.UpdateDraft(c.Request.Context(), d); err != nil {
		renderError(c, err)
		return
	}
	success(c, gin.H{
		"draft":                 d,
		"total":                 w.Total(),
		"equal_amount_editable": w.EqualAmountEditable(),
	})
}

// submitDraft creates the trip a draft describes and removes the draft.
func (s *Server) submitDraft(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	d, err := s.drafts.GetDraft(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	meetingID, err := s.submitTrip(c, d.CreateInput())
	if err != nil {
		renderError(c, err)
		return
	}
	if err := s.drafts.DeleteDraft(c.Request.Context(), id); err != nil {
		// the trip exists already; a leftover draft is only noise
		c.Error(err)
	}
	created(c, gin.H{"meeting_id": meetingID})
}

// createTrip creates a trip straight from wizard state without a draft.
func (s *Server) createTrip(c *gin.Context) {
	body, ok := bindDraft(c)
	if !ok {
		return
	}
	d := &dbt.Draft{}
	body.applyTo(d)

	meetingID, err := s.submitTrip(c, d.CreateInput())
	if err != nil {
		renderError(c, err)
		return
	}
	created(c, gin.H{"meeting_id": meetingID})
}

func (s *Server) submitTrip(c *gin.Context, in trip.CreateInput) (int64, error) {
	req, err := trip.BuildCreateTrip(in)
	if err != nil {
		return 0, err
	}
	return s.backend.CreateTripWithContributions(c.Request.Context(), req)
}
