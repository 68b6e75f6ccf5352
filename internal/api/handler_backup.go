package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"building-registry/internal/backup"
)

// GetBackup downloads a JSON backup of every building.
func (h *Handler) GetBackup(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.backup.Write(&buf)
	if err != nil {
		h.fail(c, err, "백업 생성에 실패했습니다")
		return
	}
	attachment(c, name, "application/json", buf.Bytes())
}

// ValidateBackup checks an uploaded backup without applying it.
func (h *Handler) ValidateBackup(c *gin.Context) {
	f, _, ok := formFile(c)
	if !ok {
		return
	}
	defer f.Close()

	report, err := h.backup.Check(f)
	if err != nil {
		h.fail(c, err, "백업 검증에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, report)
}

// RestoreBackup applies an uploaded backup. mode is merge (default) or
// replace.
func (h *Handler) RestoreBackup(c *gin.Context) {
	mode, err := backup.ParseMode(c.Query("mode"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	f, _, ok := formFile(c)
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.backup.Restore(c.Request.Context(), f, mode)
	if err != nil {
		h.fail(c, err, "백업 복원에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, res)
}
