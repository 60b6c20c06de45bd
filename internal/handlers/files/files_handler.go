// internal/handlers/files/files_handler.go
package files

import (
	"net/http"
	"os"
	"strings"

	"dealerdesk-service/internal/pkg/response"
	"dealerdesk-service/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FilesHandler struct {
	store  *storage.Store
	logger *zap.Logger
}

func NewFilesHandler(store *storage.Store, logger *zap.Logger) *FilesHandler {
	return &FilesHandler{store: store, logger: logger}
}

// Serve handles GET /files/:bucket/*key. Image and photo buckets are
// public; document buckets require a valid exp/sig pair.
func (h *FilesHandler) Serve(c *gin.Context) {
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")
	if bucket == "" || key == "" {
		response.NotFound(c, "file not found")
		return
	}

	if storage.SignedBuckets[bucket] {
		exp := c.Query("exp")
		sig := c.Query("sig")
		if !h.store.VerifySignature(bucket, key, exp, sig) {
			response.Forbidden(c, "invalid or expired link")
			return
		}
	}

	data, err := h.store.Read(bucket, key)
	if err != nil {
		if os.IsNotExist(err) {
			response.NotFound(c, "file not found")
			return
		}
		h.logger.Error("file read failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
