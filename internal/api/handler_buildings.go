package api

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"building-registry/internal/importer"
	"building-registry/internal/lookup"
	"building-registry/internal/model"
	"building-registry/internal/sheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetBuildings returns the building list, the active filters and the
// filtered list.
func (h *Handler) GetBuildings(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Buildings.State())
}

func (h *Handler) GetBuilding(c *gin.Context) {
	b, ok := h.registry.Buildings.BuildingByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "건물을 찾을 수 없습니다"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBuildingProperties lists the properties linked to a building,
// ignoring the property filters.
func (h *Handler) GetBuildingProperties(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.registry.Buildings.BuildingByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "건물을 찾을 수 없습니다"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Properties.PropertiesOf(id))
}

func (h *Handler) PostBuilding(c *gin.Context) {
	var b model.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(b.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "건물명이 필수입니다"})
		return
	}
	if b.Icon == "" {
		b.Icon = lookup.DefaultBuildingIcon
	}

	stored, err := h.registry.Buildings.Add(c.Request.Context(), b)
	if err != nil {
		h.fail(c, err, "건물 추가에 실패했습니다")
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *Handler) PutBuilding(c *gin.Context) {
	var b model.Building
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	b.ID = c.Param("id")

	stored, err := h.registry.Buildings.Update(c.Request.Context(), b)
	if err != nil {
		h.fail(c, err, "건물 수정에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *Handler) DeleteBuilding(c *gin.Context) {
	if err := h.registry.Buildings.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "건물 삭제에 실패했습니다")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearBuildings(c *gin.Context) {
	if err := h.registry.Buildings.ClearAll(c.Request.Context()); err != nil {
		h.fail(c, err, "건물 전체 삭제에 실패했습니다")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostBuildingLocationFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Buildings.ChangeLocationFilter(req.Value))
}

func (h *Handler) PostBuildingTypeFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Buildings.ChangeTypeFilter(req.Value))
}

func (h *Handler) PostBuildingSearch(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Buildings.ChangeSearchQuery(req.Value))
}

// ImportBuildings applies an uploaded csv or xlsx sheet. The mode query
// parameter selects append or replace; replace is the default.
func (h *Handler) ImportBuildings(c *gin.Context) {
	mode, err := importer.ParseMode(c.Query("mode"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	f, name, ok := formFile(c)
	if !ok {
		return
	}
	defer f.Close()

	res, err := h.importer.ImportBuildings(c.Request.Context(), name, f, mode)
	if err != nil {
		h.fail(c, err, "건물 가져오기에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportBuildings downloads buildings as xlsx. location and type narrow the
// export through the storage indexes.
func (h *Handler) ExportBuildings(c *gin.Context) {
	location, typ := c.Query("location"), c.Query("type")

	buildings := h.registry.Buildings.Items()
	if location != "" || typ != "" {
		var err error
		if buildings, err = h.registry.Buildings.Fetch(c.Request.Context(), location, typ); err != nil {
			h.fail(c, err, "건물 내보내기에 실패했습니다")
			return
		}
	}

	var buf bytes.Buffer
	if err := sheet.WriteBuildings(&buf, buildings); err != nil {
		h.fail(c, err, "건물 내보내기에 실패했습니다")
		return
	}
	attachment(c, "buildings-"+time.Now().Format("20060102")+".xlsx", xlsxContentType, buf.Bytes())
}

// SearchBuildings looks buildings up by name for property forms.
func (h *Handler) SearchBuildings(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Buildings.SearchBuildings(c.Query("q")))
}
