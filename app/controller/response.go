package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directum-studio/apperr"
)

// respondError writes the error envelope {"ok":false,"error":code,"message":...}
// with the status mapped from the error code. Metadata is included when present.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("❌ "+op+" failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("⚠️  "+op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)

	body := gin.H{
		"ok":      false,
		"error":   string(apperr.CodeOf(err)),
		"message": err.Error(),
	}
	if md := apperr.MetadataOf(err); len(md) > 0 {
		body["details"] = md
	}
	c.JSON(status, body)
}

// bindJSON decodes the request body, answering 400 when it is malformed
func bindJSON(c *gin.Context, logger *zap.Logger, op string, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, logger, op, apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err))
		return false
	}
	return true
}

// requireEmail reads ?email= and answers 400 when it is missing
func requireEmail(c *gin.Context, logger *zap.Logger, op string) (string, bool) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respondError(c, logger, op, apperr.InvalidInput("email required"))
		return "", false
	}
	return email, true
}
