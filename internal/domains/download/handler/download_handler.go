package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/domains/download/model"
	"homelibrary-backend/internal/domains/download/service"
	"homelibrary-backend/internal/shared"
	"homelibrary-backend/internal/shared/response"
)

type DownloadHandler struct {
	service service.ServiceInterface
}

func NewDownloadHandler(svc service.ServiceInterface) *DownloadHandler {
	return &DownloadHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// START: POST /v1/books/:id/download
// ════════════════════════════════════════════════════════════════

func (h *DownloadHandler) Start(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	userID, _ := c.Get(shared.CtxUserID)
	uid, _ := userID.(uuid.UUID)

	t, err := h.service.Start(c.Request.Context(), bookID, uid)
	if err != nil {
		response.ErrorResponse(c, bookmodel.ToHTTPStatus(err), bookmodel.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusAccepted, t.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// STATUS: GET /v1/downloads/:correlationId
// ════════════════════════════════════════════════════════════════

func (h *DownloadHandler) Status(c *gin.Context) {
	t, err := h.service.Status(c.Request.Context(), c.Param("correlationId"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, t.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// WAIT: GET /v1/downloads/:correlationId/wait
// ════════════════════════════════════════════════════════════════

// Long poll: blocks until the transfer finishes or the client gives up.
func (h *DownloadHandler) Wait(c *gin.Context) {
	t, err := h.service.Await(c.Request.Context(), c.Param("correlationId"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, t.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// FILE: GET /v1/downloads/:correlationId/file
// ════════════════════════════════════════════════════════════════

func (h *DownloadHandler) ServeTransferFile(c *gin.Context) {
	path, filename, err := h.service.OpenArtifact(c.Request.Context(), c.Param("correlationId"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filename)
}

// ════════════════════════════════════════════════════════════════
// FILE: GET /v1/books/:id/file
// ════════════════════════════════════════════════════════════════

func (h *DownloadHandler) ServeFile(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	path, filename, err := h.service.LocalFile(c.Request.Context(), bookID)
	if err != nil {
		status := model.ToHTTPStatus(err)
		code := model.ToErrorCode(err)
		if err == bookmodel.ErrBookNotFound {
			status = bookmodel.ToHTTPStatus(err)
			code = bookmodel.ToErrorCode(err)
		}
		response.ErrorResponse(c, status, code, err.Error())
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filename)
}
