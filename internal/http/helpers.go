package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/policy"
	"github.com/mrlokans/bookshelf/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the error envelope for every failed API call.
type ErrorResponse struct {
	Error *apperrors.Error `json:"error"`
}

// DataResponse wraps a successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// ListResponse wraps a page of results.
type ListResponse struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

// --- Error Response Helpers ---

var errRouteNotFound = apperrors.NotFound("route")

// respondError maps a domain error to its status. Anything else is logged and
// reported as a generic internal error.
func respondError(c *gin.Context, err error) {
	var domainErr *apperrors.Error
	if !apperrors.As(err, &domainErr) || domainErr.Code == apperrors.CodeInternal {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		domainErr = apperrors.Internal("internal server error", nil)
	}
	c.AbortWithStatusJSON(domainErr.HTTPStatus(), ErrorResponse{Error: domainErr})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, apperrors.Validation(message))
}

// --- Success Response Helpers ---

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, ListResponse{Data: items, Count: len(items)})
}

// respondDeleted reports which lifecycle step a delete applied.
func respondDeleted(c *gin.Context, transition policy.Transition) {
	c.JSON(http.StatusOK, gin.H{"deleted": transition != policy.TransitionNone, "transition": transition.String()})
}

func caller(c *gin.Context) identity.Identity {
	return auth.IdentityFrom(c)
}

// --- Request Binding ---

// bindJSON decodes the body into req and validates its shape. On failure it
// responds with 400 and returns false.
func bindJSON(c *gin.Context, v *validation.Validator, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "malformed request body")
		return false
	}
	if err := v.Validate(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// --- Parameter Parsing ---

// parseIDParam extracts a positive integer id from the URL. It responds with
// 400 and returns 0, false when the value is not one.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseListQuery reads status, search, sort, limit and skip. Shape rules
// such as the limit cap are enforced by the services.
func parseListQuery(c *gin.Context) (policy.ListQuery, bool) {
	var q policy.ListQuery

	if raw := c.Query("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "invalid status")
			return q, false
		}
		q = q.WithStatus(entities.Status(n))
	}

	q.Search = c.Query("search")

	if raw := c.Query("sort"); raw != "" {
		sort, err := policy.ParseSort(raw)
		if err != nil {
			respondError(c, err)
			return q, false
		}
		q.Sort = sort
	}

	var ok bool
	if q.Limit, ok = queryInt(c, "limit"); !ok {
		return q, false
	}
	if q.Skip, ok = queryInt(c, "skip"); !ok {
		return q, false
	}
	return q, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

// parseIDList accepts repeated and comma separated values: ?genres=1,2&genres=3.
func parseIDList(c *gin.Context, name string) ([]uint, bool) {
	var ids []uint
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil || id == 0 {
				respondBadRequest(c, "invalid "+name)
				return nil, false
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, true
}

// parseQueryID reads an optional positive id from the query string.
func parseQueryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
