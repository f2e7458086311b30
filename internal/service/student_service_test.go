package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
)

type mockStudentRepo struct {
	students  map[string]models.Student
	findCalls int
	listCalls int
	nextID    int64
	err       error
	createErr error
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	repo := &mockStudentRepo{students: make(map[string]models.Student)}
	for _, s := range students {
		repo.nextID++
		s.ID = repo.nextID
		repo.students[s.Code] = s
	}
	return repo
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Student
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.students[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) ListByProgram(ctx context.Context, programID string) ([]models.Student, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Student
	for _, s := range m.students {
		if s.ProgramID == programID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.students[code]
	return ok, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.err != nil {
		return m.err
	}
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.Code] = *student
	return nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		m.deleted = append(m.deleted, key)
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

var vanessa = models.Student{FirstName: "Vanessa", LastName: "Mota", Code: "4567", ProgramID: "LTA1"}

func TestStudentServiceRegister(t *testing.T) {
	repo := newMockStudentRepo()
	svc := NewStudentService(repo, nil, nil, zap.NewNop())

	student, err := svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Rafael", LastName: "Nunes", Code: " 124990 ", ProgramID: "LTA1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), student.ID)
	assert.Equal(t, "124990", student.Code)
	assert.Contains(t, repo.students, "124990")
}

func TestStudentServiceRegisterDuplicateCode(t *testing.T) {
	repo := newMockStudentRepo(vanessa)
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Outra", LastName: "Pessoa", Code: "4567", ProgramID: "LTA2",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceRegisterConcurrentDuplicate(t *testing.T) {
	repo := newMockStudentRepo()
	repo.createErr = fmt.Errorf("create student: %w", &pq.Error{Code: "23505", Constraint: "estudantes_codigo_key"})
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Rafael", LastName: "Nunes", Code: "124990", ProgramID: "LTA1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, 409, appErrors.FromError(err).Status)

	repo.createErr = fmt.Errorf("create student: %w", &pq.Error{Code: "23502"})
	_, err = svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Rafael", LastName: "Nunes", Code: "124990", ProgramID: "LTA1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestStudentServiceRegisterRefreshesProgramWithGlobCharacters(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc := NewStudentService(newMockStudentRepo(), cache, nil, nil)

	students, err := svc.ListByProgram(context.Background(), "LTA[1]")
	require.NoError(t, err)
	assert.Empty(t, students)

	_, err = svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Talita", LastName: "Cunha", Code: "51234", ProgramID: "LTA[1]",
	})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "students:program:LTA[1]")

	students, err = svc.ListByProgram(context.Background(), "LTA[1]")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "51234", students[0].Code)
}

func TestCacheServiceInvalidateClearsStudentLookups(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	cache.Set(context.Background(), "students:code:4567", vanessa, 0)
	cache.Set(context.Background(), "students:program:LTA1", []models.Student{vanessa}, 0)

	cache.Invalidate(context.Background(), StudentCachePattern)

	assert.Empty(t, cacheRepo.entries)
	assert.Equal(t, []string{StudentCachePattern}, cacheRepo.deleted)
}

func TestStudentServiceRegisterValidation(t *testing.T) {
	svc := NewStudentService(newMockStudentRepo(), nil, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterStudentRequest{FirstName: "Sem", Code: "1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGetByCode(t *testing.T) {
	svc := NewStudentService(newMockStudentRepo(vanessa), nil, nil, nil)

	student, err := svc.GetByCode(context.Background(), "4567")
	require.NoError(t, err)
	assert.Equal(t, "Vanessa", student.FirstName)

	_, err = svc.GetByCode(context.Background(), "9999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Contains(t, err.Error(), "9999")

	_, err = svc.GetByCode(context.Background(), " ")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUsesCache(t *testing.T) {
	repo := newMockStudentRepo(vanessa)
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	svc := NewStudentService(repo, cache, nil, nil)

	for i := 0; i < 3; i++ {
		student, err := svc.GetByCode(context.Background(), "4567")
		require.NoError(t, err)
		assert.Equal(t, "Mota", student.LastName)
	}
	assert.Equal(t, 1, repo.findCalls)

	for i := 0; i < 2; i++ {
		students, err := svc.ListByProgram(context.Background(), "LTA1")
		require.NoError(t, err)
		assert.Len(t, students, 1)
	}
	assert.Equal(t, 1, repo.listCalls)

	_, err := svc.Register(context.Background(), dto.RegisterStudentRequest{
		FirstName: "Talita", LastName: "Cunha", Code: "51234", ProgramID: "LTA1",
	})
	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "students:program:LTA1")
	assert.Contains(t, cacheRepo.deleted, "students:code:51234")

	students, err := svc.ListByProgram(context.Background(), "LTA1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestStudentServiceListReturnsEmptySlice(t *testing.T) {
	svc := NewStudentService(newMockStudentRepo(), nil, nil, nil)

	students, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)

	byProgram, err := svc.ListByProgram(context.Background(), "NONE")
	require.NoError(t, err)
	assert.NotNil(t, byProgram)
	assert.Empty(t, byProgram)
}

func TestStudentServiceRepositoryFailure(t *testing.T) {
	repo := newMockStudentRepo()
	repo.err = errors.New("db down")
	svc := NewStudentService(repo, nil, nil, nil)

	_, err := svc.List(context.Background())
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
