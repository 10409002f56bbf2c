package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"homelibrary-backend/internal/domains/user/model"
	"homelibrary-backend/internal/domains/user/repository"
	"homelibrary-backend/pkg/jwt"
)

// ServiceInterface defines user business operations
type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*model.UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error)

	SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error
	ListReadingStates(ctx context.Context, userID uuid.UUID) ([]model.ReadingState, error)
}

// userService implements ServiceInterface
type userService struct {
	repo       repository.RepositoryInterface
	jwtManager *jwt.Manager
}

// NewUserService tạo service instance với DI
func NewUserService(repo repository.RepositoryInterface, jwtManager *jwt.Manager) ServiceInterface {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register tạo user mới
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: email must be unique
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	// 3. HASH PASSWORD
	// bcrypt cost = 12: balance giữa security và performance
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	// Nickname defaults to the local-part of the email.
	nickname := req.Nickname
	if nickname == "" {
		nickname = model.DefaultNickname(req.Email)
	}

	newUser := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Nickname:     nickname,
		Role:         model.RoleUser,
	}

	// 5. PERSIST TO DATABASE
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

// Login xác thực user và trả về JWT tokens
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Không expose "email not found" - attacker không biết email có tồn tại không
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// Refresh đổi refresh token lấy cặp tokens mới
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		u.Nickname = *req.Nickname
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}

	dto := updated.ToDTO()
	return &dto, nil
}

// ========================================
// READING STATE
// ========================================

func (s *userService) SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error {
	return s.repo.SetReadingOffset(ctx, userID, bookID, offset)
}

func (s *userService) ListReadingStates(ctx context.Context, userID uuid.UUID) ([]model.ReadingState, error) {
	return s.repo.GetReadingStates(ctx, userID)
}

// issueTokens tạo cặp access/refresh token cho user
func (s *userService) issueTokens(u *model.User) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		User:         u.ToDTO(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
