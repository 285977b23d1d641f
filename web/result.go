package web

import (
	"github.com/gin-gonic/gin"

	"jeongsan/settle"
	"jeongsan/view"
)

// meetingResult renders a meeting's settlement. ?tipped=12,철수 selects the
// members whose rounded-up amount is shown.
func (s *Server) meetingResult(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	result, err := s.backend.GetTripSettlementResult(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	toggles := settle.ParseTipToggles(c.QueryArray("tipped"))
	success(c, view.BuildSettlementView(*result, toggles))
}

// publicResult renders a shared settlement by trip uuid.
func (s *Server) publicResult(c *gin.Context) {
	id, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	result, err := s.backend.GetPublicTripResult(c.Request.Context(), id.String())
	if err != nil {
		renderError(c, err)
		return
	}
	toggles := settle.ParseTipToggles(c.QueryArray("tipped"))
	success(c, view.BuildSettlementView(*result, toggles))
}
