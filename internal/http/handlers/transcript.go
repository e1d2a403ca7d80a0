package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rao305/boilerai-transcript/internal/http/middleware"
	"github.com/rao305/boilerai-transcript/internal/http/response"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/services"
)

type TranscriptHandler struct {
	log               *logger.Logger
	transcriptService services.TranscriptService
	exportService     services.ExportService
}

func NewTranscriptHandler(
	log *logger.Logger,
	transcriptService services.TranscriptService,
	exportService services.ExportService,
) *TranscriptHandler {
	return &TranscriptHandler{
		log:               log.With("handler", "TranscriptHandler"),
		transcriptService: transcriptService,
		exportService:     exportService,
	}
}

// respondServiceError maps pipeline sentinels onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrEmptyTranscript):
		response.RespondError(c, http.StatusUnprocessableEntity, "empty_transcript", err)
	case errors.Is(err, apperrors.ErrExtraction):
		response.RespondError(c, http.StatusBadGateway, "extraction_failed", err)
	case errors.Is(err, apperrors.ErrInvalidEdit):
		response.RespondError(c, http.StatusBadRequest, "invalid_edit", err)
	case errors.Is(err, apperrors.ErrNoEligibleCourses):
		response.RespondError(c, http.StatusConflict, "no_eligible_courses", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

type processRequest struct {
	StudentName string `json:"student_name"`
	Program     string `json:"program"`
	RawText     string `json:"raw_text" binding:"required"`
}

func (h *TranscriptHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	record, err := h.transcriptService.ProcessTranscript(c.Request.Context(), services.ProcessInput{
		StudentID:   middleware.StudentID(c),
		StudentName: req.StudentName,
		Program:     req.Program,
		RawText:     req.RawText,
	})
	if err != nil {
		h.log.Error("Process failed", "error", err)
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"transcript": record})
}

func (h *TranscriptHandler) Get(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	record, err := h.transcriptService.GetTranscript(c.Request.Context(), recordID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transcript": record})
}

func (h *TranscriptHandler) GetMine(c *gin.Context) {
	record, err := h.transcriptService.GetByStudent(c.Request.Context(), middleware.StudentID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transcript": record})
}

func (h *TranscriptHandler) Delete(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.transcriptService.DeleteTranscript(c.Request.Context(), recordID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": recordID})
}

func (h *TranscriptHandler) EditEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var patch services.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.transcriptService.EditEntry(c.Request.Context(), entryID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entry": entry})
}

type verifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (h *TranscriptHandler) VerifyEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.transcriptService.VerifyEntry(c.Request.Context(), entryID, *req.Verified)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entry": entry})
}

type selectionRequest struct {
	Action  string     `json:"action" binding:"required,oneof=all none toggle"`
	EntryID *uuid.UUID `json:"entry_id"`
}

func (h *TranscriptHandler) Selection(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "all":
		err = h.transcriptService.SelectAll(ctx, recordID)
	case "none":
		err = h.transcriptService.SelectNone(ctx, recordID)
	case "toggle":
		if req.EntryID == nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("entry_id required for toggle"))
			return
		}
		var entry interface{}
		entry, err = h.transcriptService.ToggleSelect(ctx, *req.EntryID)
		if err == nil {
			response.RespondOK(c, gin.H{"entry": entry})
			return
		}
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"selection": req.Action})
}

func (h *TranscriptHandler) Export(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	buf, filename, err := h.exportService.ExportWorkbook(c.Request.Context(), recordID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
