package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/shared/server/respond"
	"resume-scorer/internal/shared/storage/object"
	"resume-scorer/internal/shared/telemetry"
)

// filesHandler serves blobs for stores without URLs of their own, such as the
// local disk store. The route is public, matching presigned cloud URLs.
func filesHandler(store object.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("path"), "/")
		if key == "" {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			switch {
			case errors.Is(err, object.ErrNotFound), errors.Is(err, object.ErrInvalidKey):
				respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			default:
				telemetry.Error("files.open_failed", map[string]any{"file_ref": key, "error": err})
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read file", nil)
			}
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("X-Content-Type-Options", "nosniff")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			telemetry.Warn("files.copy_failed", map[string]any{"file_ref": key, "error": err})
		}
	}
}
