package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"charterdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry reports a MySQL 1062 unique key violation.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// RespondError sends the standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty request body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// PathID parses the :id parameter; reports the error itself on failure.
func PathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}

// pageParams reads ?page= and ?limit= with the shared defaults and cap.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(strings.TrimSpace(c.Query("page")))
	limit, _ = strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}
