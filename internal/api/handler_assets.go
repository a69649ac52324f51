package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/parse"
	"parm-catalog/internal/view"
)

// CategoryRowResponse is one rendered row of the category dropdown.
type CategoryRowResponse struct {
	ID     int64  `json:"id"`
	Indent int    `json:"indent"`
	Name   string `json:"name"`
	Label  string `json:"label"`
}

// AssetResponse is an asset with its image paths mapped to URLs.
type AssetResponse struct {
	catalog.Asset
	Manufacturer  string `json:"manufacturer"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// GetCategories handles GET /api/categories.
func (h *Handler) GetCategories(c *gin.Context) {
	rows := make([]CategoryRowResponse, 0, h.catalog.Tree.Len())
	for row := range catalog.Rows(h.catalog.Tree) {
		rows = append(rows, CategoryRowResponse{
			ID:     row.ID,
			Indent: row.Indent,
			Name:   row.Name,
			Label:  row.Label(),
		})
	}
	c.JSON(http.StatusOK, rows)
}

// GetCategoryTree handles GET /api/categories/tree.
func (h *Handler) GetCategoryTree(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Tree)
}

// GetAssets handles GET /api/assets?category={id}&descendants={bool}.
func (h *Handler) GetAssets(c *gin.Context) {
	descendants := h.descendants
	if raw := c.Query("descendants"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'descendants' value. Use true or false."})
			return
		}
		descendants = v
	}

	selected := c.Query("category")
	var assets []catalog.Asset
	if descendants {
		assets = catalog.FilterWithDescendants(h.catalog.Assets, h.catalog.Tree, selected)
	} else {
		assets = catalog.Filter(h.catalog.Assets, selected)
	}

	response := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		response = append(response, h.assetResponse(a))
	}
	c.JSON(http.StatusOK, response)
}

// GetAsset handles GET /api/assets/{id}.
func (h *Handler) GetAsset(c *gin.Context) {
	id, err := parse.AssetID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}
	a, ok := h.catalog.Asset(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}
	c.JSON(http.StatusOK, h.assetResponse(a))
}

// GetAssetReservations handles GET /api/assets/{id}/reservations.
func (h *Handler) GetAssetReservations(c *gin.Context) {
	id, err := parse.AssetID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}
	if _, ok := h.catalog.Asset(id); !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	panel := view.NewReservationPanel(h.reservations, h.logger)
	panel.Sync(c.Request.Context(), 1, id)
	c.JSON(http.StatusOK, panel.View())
}

func (h *Handler) assetResponse(a catalog.Asset) AssetResponse {
	manufacturer := a.ManufacturerName
	if manufacturer == "" {
		manufacturer = view.UnknownManufacturer
	}
	return AssetResponse{
		Asset:         a,
		Manufacturer:  manufacturer,
		SmallImageURL: h.images.Resolve(a.SmallImagePath),
		LargeImageURL: h.images.Resolve(a.LargeImagePath),
	}
}
