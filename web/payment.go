package web

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jeongsan/api"
	"jeongsan/currency"
	"jeongsan/trip"
)

type paymentBody struct {
	Type            api.PaymentType `json:"type"`
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	PayMemberID     int64           `json:"pay_member_id"`
	AttendMemberIDs []int64         `json:"attend_member_ids"`
	PayDate         string          `json:"pay_date"`
}

func bindPayment(c *gin.Context) (api.PaymentRequest, bool) {
	var body paymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return api.PaymentRequest{}, false
	}
	if body.Name != "" && !VerifyStringRequest(body.Name) {
		badRequest(c, "invalid payment name")
		return api.PaymentRequest{}, false
	}
	req, err := trip.BuildPayment(trip.PaymentInput(body))
	if err != nil {
		renderError(c, err)
		return api.PaymentRequest{}, false
	}
	return req, true
}

// createPayment records an expense. ?trip=<uuid> refreshes that trip's live
// dashboard afterwards.
func (s *Server) createPayment(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	req, ok := bindPayment(c)
	if !ok {
		return
	}
	p, err := s.backend.CreatePayment(c.Request.Context(), id, req)
	if err != nil {
		renderError(c, err)
		return
	}
	s.refreshTrip(c)
	created(c, p)
}

func (s *Server) updatePayment(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	paymentID, ok := int64Param(c, "paymentId")
	if !ok {
		return
	}
	req, ok := bindPayment(c)
	if !ok {
		return
	}
	if err := s.backend.UpdatePayment(c.Request.Context(), id, paymentID, req); err != nil {
		renderError(c, err)
		return
	}
	s.refreshTrip(c)
	success(c, gin.H{"id": paymentID})
}

func (s *Server) deletePayment(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	paymentID, ok := int64Param(c, "paymentId")
	if !ok {
		return
	}
	if err := s.backend.DeletePayment(c.Request.Context(), id, paymentID); err != nil {
		renderError(c, err)
		return
	}
	s.refreshTrip(c)
	success(c, gin.H{"id": paymentID})
}

type budgetBody struct {
	ForeignAmount decimal.Decimal `json:"foreignAmount"`
	MemberIDs     []int64         `json:"memberIds"`
}

func (s *Server) addBudget(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	var body budgetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	req, err := trip.BuildAddBudget(body.ForeignAmount, body.MemberIDs)
	if err != nil {
		renderError(c, err)
		return
	}
	if err := s.backend.AddBudget(c.Request.Context(), id, req); err != nil {
		renderError(c, err)
		return
	}
	s.refreshTrip(c)
	success(c, req)
}

// exchangeRate proxies the backend rate. KRW is answered locally with 1.
func (s *Server) exchangeRate(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("currency")))
	if code == "" {
		badRequest(c, "currency is required")
		return
	}
	date := c.Query("date")
	if currency.IsHome(code) {
		success(c, api.ExchangeRate{Currency: currency.DefaultCode, Date: date, Rate: decimal.NewFromInt(1)})
		return
	}
	r, err := s.backend.GetExchangeRate(c.Request.Context(), code, date)
	if err != nil {
		renderError(c, err)
		return
	}
	success(c, r)
}

// format renders an amount the way the UI shows it.
func (s *Server) format(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, "invalid amount")
		return
	}
	code := c.Query("code")
	rule := currency.RuleFor(code)
	success(c, gin.H{
		"code":     rule.Code,
		"symbol":   rule.Symbol,
		"decimals": rule.Decimals,
		"text":     currency.Format(amount, code),
	})
}
