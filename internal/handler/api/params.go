package api

import (
	"net/http"
	"strconv"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/handler/middleware"
	"tool-rental/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidID      = errs.Mark(errs.New("id must be a positive number"), errs.ErrValidation)
	ErrInvalidRequest = errs.Mark(errs.New("invalid request"), errs.ErrValidation)
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httperr.Abort(c, errs.Wrapf(ErrInvalidID, "%s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		httperr.Abort(c, errs.Wrapf(ErrInvalidRequest, "%s must be a number", name))
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "Invalid request", nil)
		return false
	}
	return true
}

// principal must only be used behind RequireAuth.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.Abort(c, middleware.ErrTokenRequired)
	}
	return p, ok
}
