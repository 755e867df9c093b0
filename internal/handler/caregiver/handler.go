package caregiver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hitecare/carehome-api/internal/handler"
	"github.com/hitecare/carehome-api/internal/middleware"
	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/service/caregiver"
)

type Handler struct {
	service caregiver.CaregiverService
}

func NewHandler(service caregiver.CaregiverService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	caregivers := r.Group("/caregivers")
	{
		caregivers.POST("", h.CreateCaregiver)
		caregivers.GET("", h.ListCaregivers)
		caregivers.GET("/:id", h.GetCaregiver)
		caregivers.PUT("/:id", h.UpdateCaregiver)
		caregivers.DELETE("/:id", h.DeleteCaregiver)
	}
}

func (h *Handler) CreateCaregiver(c *gin.Context) {
	var req model.CreateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateCaregiver(c.Request.Context(), middleware.SessionFromContext(c), &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetCaregiver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid caregiver ID"))
		return
	}

	cg, err := h.service.GetCaregiver(c.Request.Context(), id)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cg))
}

func (h *Handler) ListCaregivers(c *gin.Context) {
	caregivers, err := h.service.ListCaregivers(c.Request.Context())
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(caregivers))
}

func (h *Handler) UpdateCaregiver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid caregiver ID"))
		return
	}

	var req model.UpdateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.UpdateCaregiver(c.Request.Context(), middleware.SessionFromContext(c), id, &req)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

// DeleteCaregiver marks the record for deletion; purging happens later when
// the retention window has passed.
func (h *Handler) DeleteCaregiver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid caregiver ID"))
		return
	}

	marked, err := h.service.MarkCaregiverForDeletion(c.Request.Context(), middleware.SessionFromContext(c), id)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(marked))
}
