package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parm-catalog/internal/mw"
	"parm-catalog/internal/parse"
	"parm-catalog/internal/shell"
	"parm-catalog/internal/view"
)

type categoryRequest struct {
	Category string `form:"category" json:"category"`
}

// GetCatalogPage handles GET /catalog.
func (h *Handler) GetCatalogPage(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}
	c.HTML(http.StatusOK, "catalog.tmpl", s.Snapshot())
}

// GetState handles GET /api/state.
func (h *Handler) GetState(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// PostCategory handles POST /catalog/category. A missing value selects the
// "no selection" entry.
func (h *Handler) PostCategory(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}

	var req categoryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	respondIntent(c, s.SelectCategory(req.Category))
}

// PostAssetClick handles POST /catalog/assets/{id}/click.
func (h *Handler) PostAssetClick(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}

	id, err := parse.AssetID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	snap, err := s.ClickAsset(c.Request.Context(), id)
	if errors.Is(err, view.ErrAssetNotShown) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset is not shown in the current selection"})
		return
	}
	if err != nil {
		h.logger.Error("asset click failed", "asset_id", id, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to select asset"})
		return
	}
	respondIntent(c, snap)
}

// PostAssetClear handles POST /catalog/asset/clear.
func (h *Handler) PostAssetClear(c *gin.Context) {
	s := mw.ShellFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No session"})
		return
	}
	respondIntent(c, s.ClearAsset(c.Request.Context()))
}

// respondIntent answers an intent with the new snapshot for clients asking for
// JSON and with a redirect back to the page otherwise.
func respondIntent(c *gin.Context, snap shell.Snapshot) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, snap)
		return
	}
	c.Redirect(http.StatusSeeOther, "/catalog")
}
