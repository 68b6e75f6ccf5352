package api

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"building-registry/internal/filter"
	"building-registry/internal/importer"
	"building-registry/internal/lookup"
	"building-registry/internal/model"
	"building-registry/internal/sheet"
)

type buildingScopeRequest struct {
	BuildingID filter.Option[string] `json:"buildingId"`
}

func (h *Handler) GetProperties(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Properties.State())
}

func (h *Handler) GetProperty(c *gin.Context) {
	p, ok := h.registry.Properties.PropertyByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "매물을 찾을 수 없습니다"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetSelectedBuilding returns the building the list is scoped to.
func (h *Handler) GetSelectedBuilding(c *gin.Context) {
	b, ok := h.registry.Properties.SelectedBuilding()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "선택된 건물이 없습니다"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) PostProperty(c *gin.Context) {
	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(p.PropertyName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "매물명이 필수입니다"})
		return
	}
	if p.Category == "" {
		p.Category = lookup.CategorySale
	}

	stored, err := h.registry.Properties.Add(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "매물 추가에 실패했습니다")
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *Handler) PutProperty(c *gin.Context) {
	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p.ID = c.Param("id")

	stored, err := h.registry.Properties.Update(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "매물 수정에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	if err := h.registry.Properties.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "매물 삭제에 실패했습니다")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearProperties(c *gin.Context) {
	if err := h.registry.Properties.ClearAll(c.Request.Context()); err != nil {
		h.fail(c, err, "매물 전체 삭제에 실패했습니다")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostPropertyLocationFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Properties.ChangeLocationFilter(req.Value))
}

func (h *Handler) PostPropertyTypeFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Properties.ChangeTypeFilter(req.Value))
}

func (h *Handler) PostPropertySearch(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Properties.ChangeSearchQuery(req.Value))
}

// PostPropertyBuildingFilter scopes the list to one building. A null
// buildingId removes the scope.
func (h *Handler) PostPropertyBuildingFilter(c *gin.Context) {
	var req buildingScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.registry.Properties.ChangeSelectedBuilding(req.BuildingID))
}

func (h *Handler) ImportProperties(c *gin.Context) {
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

	res, err := h.importer.ImportProperties(c.Request.Context(), name, f, mode)
	if err != nil {
		h.fail(c, err, "매물 가져오기에 실패했습니다")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportProperties downloads properties as xlsx. buildingId and category
// narrow the export through the storage indexes.
func (h *Handler) ExportProperties(c *gin.Context) {
	buildingID, category := c.Query("buildingId"), c.Query("category")

	var (
		properties []model.Property
		err        error
	)
	if buildingID != "" || category != "" {
		properties, err = h.registry.Properties.Fetch(c.Request.Context(), buildingID, category)
	} else {
		properties = h.registry.Properties.State().Items
	}
	if err != nil {
		h.fail(c, err, "매물 내보내기에 실패했습니다")
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteProperties(&buf, properties, h.registry.Properties.Buildings()); err != nil {
		h.fail(c, err, "매물 내보내기에 실패했습니다")
		return
	}
	attachment(c, "properties-"+time.Now().Format("20060102")+".xlsx", xlsxContentType, buf.Bytes())
}

// SearchPropertyBuildings is the building picker of the property form.
func (h *Handler) SearchPropertyBuildings(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Properties.Buildings().SearchBuildings(c.Query("q")))
}
