package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"building-registry/internal/backup"
	"building-registry/internal/importer"
	"building-registry/internal/registry"
	"building-registry/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	db       *store.Database
	registry *registry.Registry
	importer *importer.Service
	backup   *backup.Service
	logger   *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *store.Database, reg *registry.Registry, imp *importer.Service, bak *backup.Service, logger *zap.Logger) *Handler {
	return &Handler{
		db:       db,
		registry: reg,
		importer: imp,
		backup:   bak,
		logger:   logger.Named("api"),
	}
}

type filterRequest struct {
	Value string `json:"value"`
}

// fail maps an error onto a response. msg is shown for storage failures.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	_ = c.Error(err)

	var verr *importer.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "유효성 검사에 실패했습니다", "errors": verr.Errors})
	case errors.Is(err, store.ErrNotReady), errors.Is(err, store.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "저장소를 사용할 수 없습니다"})
	case errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// formFile opens the multipart "file" field. It writes the 400 response
// itself when the field is missing.
func formFile(c *gin.Context) (multipart.File, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "파일이 없습니다"})
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "파일을 열 수 없습니다"})
		return nil, "", false
	}
	return f, fh.Filename, true
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
