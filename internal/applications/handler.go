package applications

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hirehub-backend/internal/shared/server/middleware"
	"hirehub-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	candidates := rg.Group("/jobs/:jobId/candidates")
	candidates.POST("/apply", h.apply)
	candidates.GET("", h.list)
	candidates.GET("/count", h.count)
	candidates.GET("/:id", h.get)
	candidates.GET("/:id/cv", h.downloadCV)
	candidates.PATCH("/:id/status", h.updateStatus)
}

func (h *Handler) apply(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	applicant := Applicant{
		FullName: c.PostForm("fullName"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	candidate, err := h.Svc.Submit(ctx, jobID, applicant, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toCandidateResponse(candidate))
}

func (h *Handler) list(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}
	status := c.Query("status")

	list, err := h.Svc.List(c.Request.Context(), jobID, status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list candidates", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toCandidateResponses(list))
}

func (h *Handler) count(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}

	count, err := h.Svc.Count(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to count candidates", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"jobId": jobID, "count": count})
}

func (h *Handler) get(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}

	candidate, err := h.Svc.Get(c.Request.Context(), jobID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCandidateNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch candidate", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toCandidateResponse(candidate))
}

func (h *Handler) downloadCV(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}

	reader, candidate, err := h.Svc.OpenCV(c.Request.Context(), jobID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCandidateNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open cv", nil)
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+candidate.CVFileName+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	jobID, ok := jobIDParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	err := h.Svc.UpdateStatus(c.Request.Context(), jobID, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrAlreadyDecided):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrCandidateNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update status", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func jobIDParam(c *gin.Context) (int, bool) {
	jobID, err := strconv.Atoi(c.Param("jobId"))
	if err != nil || jobID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId must be a positive integer", nil)
		return 0, false
	}
	return jobID, true
}
