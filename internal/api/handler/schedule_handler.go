package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/schedtime"
)

type ScheduleHandler struct {
	now func() time.Time
}

func NewScheduleHandler() *ScheduleHandler {
	return &ScheduleHandler{now: time.Now}
}

// ConvertSchedule handles POST /schedule/convert
func (h *ScheduleHandler) ConvertSchedule(c *gin.Context) {
	var req dto.ScheduleConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.converter(&req)
	if err != nil {
		abortWith(c, http.StatusBadRequest, err.Error())
		return
	}

	in := toDomainInterval(&req.Interval)
	var out, utc *domain.Interval
	if req.Direction == "to_local" {
		out, err = in.ToLocal(conv)
		utc = in
	} else {
		out, err = in.ToUTC(conv)
		utc = out
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.ScheduleConvertResponse{
		Interval:  *toIntervalDTO(out),
		UTCOffset: schedtime.FormatOffset(conv.Offset()),
	}
	if next, err := utc.NextRun(h.now()); err == nil {
		next = next.UTC()
		response.NextRun = &next
	}

	c.JSON(http.StatusOK, response)
}

func (h *ScheduleHandler) converter(req *dto.ScheduleConvertRequest) (*schedtime.Converter, error) {
	switch {
	case req.UTCOffset != nil:
		offset, err := schedtime.ParseOffset(*req.UTCOffset)
		if err != nil {
			return nil, err
		}
		return schedtime.New(offset)
	case req.Timezone != nil:
		loc, err := time.LoadLocation(*req.Timezone)
		if err != nil {
			return nil, domain.NewValidationError("unknown timezone %q", *req.Timezone)
		}
		return schedtime.ForLocation(loc, h.now())
	default:
		return nil, domain.NewValidationError("utcOffset or timezone is required")
	}
}
