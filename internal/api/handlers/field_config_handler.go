package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
)

// FieldConfigHandler serves the wizard's per-kind form configuration.
type FieldConfigHandler struct {
	fieldConfigService services.IFieldConfigService
}

// NewFieldConfigHandler creates a new FieldConfigHandler.
func NewFieldConfigHandler(fieldConfigService services.IFieldConfigService) *FieldConfigHandler {
	return &FieldConfigHandler{fieldConfigService: fieldConfigService}
}

// SetFieldConfigRequest replaces the field settings of one kind.
type SetFieldConfigRequest struct {
	Fields map[string]models.FieldSetting `json:"fields" validate:"required,min=1,dive,keys,required,max=64,endkeys"`
}

// Get handles GET /v1/field-config/:kind
func (h *FieldConfigHandler) Get(c *gin.Context) {
	kind, ok := parseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown listing kind"})
		return
	}
	fc, err := h.fieldConfigService.GetFieldConfig(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err, "Failed to retrieve field configuration")
		return
	}
	c.JSON(http.StatusOK, fc)
}

// Set handles PUT /v1/admin/field-config/:kind
func (h *FieldConfigHandler) Set(c *gin.Context) {
	kind, ok := parseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown listing kind"})
		return
	}
	var req SetFieldConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	fc, err := h.fieldConfigService.SetFieldConfig(c.Request.Context(), kind, req.Fields)
	if err != nil {
		respondError(c, err, "Failed to update field configuration")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Field configuration updated", "fieldConfig": fc})
}
