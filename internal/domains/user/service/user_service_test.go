package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"homelibrary-backend/internal/domains/user/model"
	"homelibrary-backend/pkg/jwt"
)

// mockRepo implements RepositoryInterface with function fields.
type mockRepo struct {
	createFunc           func(ctx context.Context, u *model.User) error
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*model.User, error)
	findByEmailFunc      func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFunc    func(ctx context.Context, email string) (bool, error)
	updateFunc           func(ctx context.Context, u *model.User) (*model.User, error)
	setReadingOffsetFunc func(ctx context.Context, userID, bookID uuid.UUID, offset int64) error
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFunc(ctx, u)
}
func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFunc(ctx, email)
}
func (m *mockRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmailFunc(ctx, email)
}
func (m *mockRepo) Update(ctx context.Context, u *model.User) (*model.User, error) {
	return m.updateFunc(ctx, u)
}
func (m *mockRepo) SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error {
	return m.setReadingOffsetFunc(ctx, userID, bookID, offset)
}
func (m *mockRepo) GetReadingStates(ctx context.Context, userID uuid.UUID) ([]model.ReadingState, error) {
	return nil, nil
}

func testJWT() *jwt.Manager {
	return jwt.NewManager("test-secret", 15, 72)
}

func TestRegisterDefaultsNicknameFromEmail(t *testing.T) {
	var created *model.User
	repo := &mockRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createFunc: func(ctx context.Context, u *model.User) error {
			created = u
			return nil
		},
	}

	svc := NewUserService(repo, testJWT())

	dto, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "duclm@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "duclm", dto.Nickname)
	require.NotNil(t, created)
	assert.NotEqual(t, "secret123", created.PasswordHash)
}

func TestRegisterKeepsExplicitNickname(t *testing.T) {
	repo := &mockRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createFunc:        func(ctx context.Context, u *model.User) error { return nil },
	}

	svc := NewUserService(repo, testJWT())

	dto, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "duclm@example.com",
		Password: "secret123",
		Nickname: "Bookworm",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bookworm", dto.Nickname)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &mockRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}

	svc := NewUserService(repo, testJWT())

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "duclm@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           uuid.New(),
				Email:        email,
				PasswordHash: string(hash),
				Role:         model.RoleUser,
			}, nil
		},
	}

	svc := NewUserService(repo, testJWT())

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "duclm@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

// Unknown email must look identical to a wrong password.
func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return nil, model.ErrUserNotFound
		},
	}

	svc := NewUserService(repo, testJWT())

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginIssuesTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.User{
		ID:           uuid.New(),
		Email:        "duclm@example.com",
		PasswordHash: string(hash),
		Nickname:     "duclm",
		Role:         model.RoleUser,
	}
	repo := &mockRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) { return u, nil },
	}

	svc := NewUserService(repo, testJWT())

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    u.Email,
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, u.ID, resp.User.ID)
}
