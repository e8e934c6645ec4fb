package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/pagination"
)

// parseID reads the :id path parameter, writing a 400 when it is not a UUID
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// parseDateRange reads the from and to query parameters. Both are inclusive;
// a bare date in to covers that whole day.
func parseDateRange(c *gin.Context) (service.DateRange, bool) {
	var r service.DateRange
	var errs []apperror.FieldError

	if s := c.Query("from"); s != "" {
		from, err := request.ParseDate(s)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "from", Message: "invalid date"})
		} else {
			r.From = &from
		}
	}
	if s := c.Query("to"); s != "" {
		to, err := request.ParseDate(s)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "to", Message: "invalid date"})
		} else {
			if _, dateOnly := time.Parse(time.DateOnly, s); dateOnly == nil {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			r.To = &to
		}
	}

	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return r, false
	}
	return r, true
}
