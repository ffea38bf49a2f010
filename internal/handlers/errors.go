package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/logger"
	"github.com/taskdeck-dev/taskdeck/internal/store"
	"go.uber.org/zap"
)

// respondStoreError maps the store's error taxonomy onto wire status
// codes. Denied covers missing projects too, so a 403 here never
// confirms that a project exists.
func respondStoreError(ctx *gin.Context, err error) {
	var ve *store.ValidationError

	switch {
	case errors.As(err, &ve):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, store.ErrDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "No access"})
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logger.Log.Error("store failure", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
