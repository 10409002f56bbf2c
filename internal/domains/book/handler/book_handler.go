package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/domains/book/service"
	"homelibrary-backend/internal/shared/response"
)

// Book PDFs lớn hơn thì reject - upload qua multipart form.
const maxUploadBytes = 64 << 20 // 64 MB

var errUploadTooLarge = errors.New("upload exceeds 64 MB limit")

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/books (admin)
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest

	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	resp, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/books?q=dune&limit=20
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetAll(c *gin.Context) {
	req := model.ListBooksRequest{
		Search: c.Query("q"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = l
		}
	}

	resp, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, resp, &response.Meta{
		Limit: req.Limit,
		Total: len(resp),
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/books/:id (admin, field-level)
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateBookRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/books/:id (admin)
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// ════════════════════════════════════════════════════════════════
// UPLOAD: POST /v1/books/:id/file (admin, multipart "file")
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) UploadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	data, _, err := readUpload(c, "file")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UploadBookFile(c.Request.Context(), id, data)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// UPLOAD: POST /v1/books/:id/cover (admin, multipart "cover")
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) UploadCover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	data, contentType, err := readUpload(c, "cover")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UploadCover(c.Request.Context(), id, data, contentType)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// readUpload reads one multipart file field into memory.
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, "", errUploadTooLarge
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}
