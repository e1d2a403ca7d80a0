package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rao305/boilerai-transcript/internal/http/middleware"
	"github.com/rao305/boilerai-transcript/internal/http/response"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/services"
)

type PlannerHandler struct {
	log             *logger.Logger
	transferService services.TransferService
}

func NewPlannerHandler(log *logger.Logger, transferService services.TransferService) *PlannerHandler {
	return &PlannerHandler{
		log:             log.With("handler", "PlannerHandler"),
		transferService: transferService,
	}
}

type transferRequest struct {
	Mode string `json:"mode" binding:"required,oneof=selected verified"`
}

func (h *PlannerHandler) Transfer(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var result *services.TransferResult
	if req.Mode == "selected" {
		result, err = h.transferService.TransferSelected(c.Request.Context(), recordID)
	} else {
		result, err = h.transferService.TransferAllVerified(c.Request.Context(), recordID)
	}
	if err != nil {
		h.log.Error("Transfer failed", "error", err, "record_id", recordID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

func (h *PlannerHandler) List(c *gin.Context) {
	courses, err := h.transferService.ListPlanner(c.Request.Context(), middleware.StudentID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}
