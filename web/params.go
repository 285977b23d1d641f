package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPageSize = 100

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func meetingIDParam(c *gin.Context) (int64, bool) {
	return int64Param(c, "id")
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads limit and offset, defaulting limit to the server page size.
func (s *Server) pageParams(c *gin.Context) (limit, offset int, ok bool) {
	limit = s.cfg.PageSize
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > maxPageSize {
			badRequest(c, "invalid limit")
			return 0, 0, false
		}
		limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			badRequest(c, "invalid offset")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}

// refreshTrip asks the dashboard poller of the ?trip= uuid, if any viewer is
// watching it, to poll now.
func (s *Server) refreshTrip(c *gin.Context) {
	if s.pollers == nil {
		return
	}
	id, err := uuid.Parse(c.Query("trip"))
	if err != nil {
		return
	}
	s.pollers.Refresh(id)
}
