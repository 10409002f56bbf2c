package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/domains/download/model"
	usermodel "homelibrary-backend/internal/domains/user/model"
	"homelibrary-backend/pkg/waiter"
)

// ========================================
// MOCKS
// ========================================

type mockBookRepo struct {
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error)
}

func (m *mockBookRepo) Create(ctx context.Context, b *bookmodel.Book) (*bookmodel.Book, error) {
	return b, nil
}
func (m *mockBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockBookRepo) List(ctx context.Context, limit int) ([]*bookmodel.Book, error) {
	return nil, nil
}
func (m *mockBookRepo) SearchByTitle(ctx context.Context, query string, limit int) ([]*bookmodel.Book, error) {
	return nil, nil
}
func (m *mockBookRepo) Update(ctx context.Context, b *bookmodel.Book) (*bookmodel.Book, error) {
	return b, nil
}
func (m *mockBookRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// memRegistry is an in-memory RegistryInterface.
type memRegistry struct {
	mu      sync.Mutex
	records map[string]*model.Transfer
}

func newMemRegistry() *memRegistry {
	return &memRegistry{records: make(map[string]*model.Transfer)}
}

func (m *memRegistry) Put(ctx context.Context, t *model.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.records[t.CorrelationID] = &cp
	return nil
}

func (m *memRegistry) Get(ctx context.Context, correlationID string) (*model.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.records[correlationID]
	if !ok {
		return nil, model.ErrTransferNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRegistry) MarkDone(ctx context.Context, correlationID string, successful bool, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.records[correlationID]
	if !ok {
		return model.ErrTransferNotFound
	}
	if t.Status != model.StatusPending {
		return nil
	}
	now := time.Now()
	t.Status = model.StatusFailed
	if successful {
		t.Status = model.StatusSuccessful
	}
	t.Detail = detail
	t.FinishedAt = &now
	return nil
}

func (m *memRegistry) ListPending(ctx context.Context) ([]*model.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*model.Transfer
	for _, t := range m.records {
		if t.Status == model.StatusPending {
			cp := *t
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, req usermodel.RegisterRequest) (*usermodel.UserDTO, error) {
	return nil, nil
}
func (stubUserService) Login(ctx context.Context, req usermodel.LoginRequest) (*usermodel.LoginResponse, error) {
	return nil, nil
}
func (stubUserService) Refresh(ctx context.Context, refreshToken string) (*usermodel.LoginResponse, error) {
	return nil, nil
}
func (stubUserService) GetProfile(ctx context.Context, id uuid.UUID) (*usermodel.UserDTO, error) {
	return nil, nil
}
func (stubUserService) UpdateProfile(ctx context.Context, id uuid.UUID, req usermodel.UpdateProfileRequest) (*usermodel.UserDTO, error) {
	return nil, nil
}
func (stubUserService) SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error {
	return nil
}
func (stubUserService) ListReadingStates(ctx context.Context, userID uuid.UUID) ([]usermodel.ReadingState, error) {
	return nil, nil
}

// ========================================
// TESTS
// ========================================

func newTestService(t *testing.T, libDir string, reg *memRegistry, book *bookmodel.Book) ServiceInterface {
	t.Helper()

	repo := &mockBookRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
			if book != nil && book.ID == id {
				return book, nil
			}
			return nil, bookmodel.ErrBookNotFound
		},
	}

	return NewDownloadService(repo, stubUserService{}, reg, nil, waiter.NewRegistry(), nil, libDir)
}

func TestStartShortCircuitsWhenFilePresent(t *testing.T) {
	libDir := t.TempDir()
	bookID := uuid.New()
	book := &bookmodel.Book{ID: bookID, Title: "Dune", FileKey: "books/" + bookID.String() + ".pdf"}

	dest := filepath.Join(libDir, "books", bookID.String()+".pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("%PDF-1.4"), 0o644))

	reg := newMemRegistry()
	svc := newTestService(t, libDir, reg, book)

	tr, err := svc.Start(context.Background(), bookID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccessful, tr.Status)
	assert.Equal(t, dest, tr.Destination)
	assert.True(t, svc.IsSuccessful(context.Background(), tr.CorrelationID))
}

func TestStartRejectsBookWithoutFile(t *testing.T) {
	bookID := uuid.New()
	book := &bookmodel.Book{ID: bookID, Title: "Draft"}

	svc := newTestService(t, t.TempDir(), newMemRegistry(), book)

	_, err := svc.Start(context.Background(), bookID, uuid.New())
	assert.ErrorIs(t, err, bookmodel.ErrNoFileKey)
}

// Two overlapping starts must each stay queryable under their own id.
func TestSequentialStartsKeepBothRecords(t *testing.T) {
	libDir := t.TempDir()
	bookID := uuid.New()
	book := &bookmodel.Book{ID: bookID, Title: "Dune", FileKey: "k"}

	dest := filepath.Join(libDir, "books", bookID.String()+".pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o644))

	reg := newMemRegistry()
	svc := newTestService(t, libDir, reg, book)

	first, err := svc.Start(context.Background(), bookID, uuid.Nil)
	require.NoError(t, err)
	second, err := svc.Start(context.Background(), bookID, uuid.Nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.CorrelationID, second.CorrelationID)

	got1, err := svc.Status(context.Background(), first.CorrelationID)
	require.NoError(t, err)
	got2, err := svc.Status(context.Background(), second.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, first.CorrelationID, got1.CorrelationID)
	assert.Equal(t, second.CorrelationID, got2.CorrelationID)
}

func TestIsSuccessfulAnswersFalseForNonSuccessful(t *testing.T) {
	reg := newMemRegistry()
	svc := newTestService(t, t.TempDir(), reg, nil)
	ctx := context.Background()

	// Unknown id.
	assert.False(t, svc.IsSuccessful(ctx, uuid.NewString()))

	// Pending.
	pending := &model.Transfer{CorrelationID: uuid.NewString(), Status: model.StatusPending, EnqueuedAt: time.Now()}
	require.NoError(t, reg.Put(ctx, pending))
	assert.False(t, svc.IsSuccessful(ctx, pending.CorrelationID))

	// Failed.
	require.NoError(t, reg.MarkDone(ctx, pending.CorrelationID, false, "boom"))
	assert.False(t, svc.IsSuccessful(ctx, pending.CorrelationID))
}

func TestAwaitReturnsTerminalRecordImmediately(t *testing.T) {
	reg := newMemRegistry()
	svc := newTestService(t, t.TempDir(), reg, nil)
	ctx := context.Background()

	done := &model.Transfer{CorrelationID: uuid.NewString(), Status: model.StatusSuccessful, EnqueuedAt: time.Now()}
	require.NoError(t, reg.Put(ctx, done))

	got, err := svc.Await(ctx, done.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccessful, got.Status)
}

func TestOpenArtifact(t *testing.T) {
	libDir := t.TempDir()
	bookID := uuid.New()
	book := &bookmodel.Book{ID: bookID, Title: "Dune", FileKey: "k"}

	dest := filepath.Join(libDir, "books", bookID.String()+".pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o644))

	reg := newMemRegistry()
	svc := newTestService(t, libDir, reg, book)
	ctx := context.Background()

	tr, err := svc.Start(ctx, bookID, uuid.Nil)
	require.NoError(t, err)

	path, filename, err := svc.OpenArtifact(ctx, tr.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, dest, path)
	assert.Equal(t, "Dune.pdf", filename)

	// A pending transfer has nothing to open.
	pending := &model.Transfer{CorrelationID: uuid.NewString(), BookID: bookID, Destination: dest, Status: model.StatusPending, EnqueuedAt: time.Now()}
	require.NoError(t, reg.Put(ctx, pending))
	_, _, err = svc.OpenArtifact(ctx, pending.CorrelationID)
	assert.ErrorIs(t, err, model.ErrNotDownloaded)
}

func TestAwaitUnknownID(t *testing.T) {
	svc := newTestService(t, t.TempDir(), newMemRegistry(), nil)

	_, err := svc.Await(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, model.ErrTransferNotFound)
}
