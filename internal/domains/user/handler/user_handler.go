package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/user/model"
	"homelibrary-backend/internal/domains/user/service"
	"homelibrary-backend/internal/shared"
	"homelibrary-backend/internal/shared/response"
)

type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(svc service.ServiceInterface) *UserHandler {
	return &UserHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// AUTH: POST /v1/auth/register
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest

	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ════════════════════════════════════════════════════════════════
// AUTH: POST /v1/auth/login
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest

	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// AUTH: POST /v1/auth/refresh
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest

	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// PROFILE: GET /v1/me
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)

	resp, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// PROFILE: PATCH /v1/me
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := currentUserID(c)

	var req model.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READING STATE: GET /v1/me/downloads
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) ListDownloads(c *gin.Context) {
	userID := currentUserID(c)

	resp, err := h.service.ListReadingStates(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ════════════════════════════════════════════════════════════════
// READING STATE: PUT /v1/me/downloads/:bookId
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) SetReadingOffset(c *gin.Context) {
	userID := currentUserID(c)

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.SetOffsetRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetReadingOffset(c.Request.Context(), userID, bookID, req.Offset); err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book_id": bookID, "offset": req.Offset})
}

// currentUserID reads the id that AuthMiddleware stored in context.
func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(shared.CtxUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}
