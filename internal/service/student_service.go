package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
)

const (
	studentCodeCacheKey    = "students:code:%s"
	studentProgramCacheKey = "students:program:%s"
	// StudentCachePattern matches every student lookup kept in cache.
	StudentCachePattern = "students:*"

	uniqueViolation = pq.ErrorCode("23505")
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByCode(ctx context.Context, code string) (*models.Student, error)
	ListByProgram(ctx context.Context, programID string) ([]models.Student, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

// StudentService handles student registration and lookups.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. cache may be nil.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every registered student.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return nonNilStudents(students), nil
}

// GetByCode returns the student registered under code.
func (s *StudentService) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student code is required")
	}
	key := fmt.Sprintf(studentCodeCacheKey, code)
	var cached models.Student
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	student, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student not found with code: %s", code))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	s.cache.Set(ctx, key, student, 0)
	return student, nil
}

// ListByProgram returns students that belong to the program.
func (s *StudentService) ListByProgram(ctx context.Context, programID string) ([]models.Student, error) {
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "programaId is required")
	}
	key := fmt.Sprintf(studentProgramCacheKey, programID)
	var cached []models.Student
	if s.cache.Get(ctx, key, &cached) {
		return nonNilStudents(cached), nil
	}
	students, err := s.repo.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students by program")
	}
	students = nonNilStudents(students)
	s.cache.Set(ctx, key, students, 0)
	return students, nil
}

// Register creates a new student enforcing code uniqueness.
func (s *StudentService) Register(ctx context.Context, req dto.RegisterStudentRequest) (*models.Student, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.ProgramID = strings.TrimSpace(req.ProgramID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student code already registered")
	}
	student := &models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Code:      req.Code,
		ProgramID: req.ProgramID,
		Photo:     req.Photo,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "student code already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.cache.Delete(ctx,
		fmt.Sprintf(studentProgramCacheKey, student.ProgramID),
		fmt.Sprintf(studentCodeCacheKey, student.Code),
	)
	s.logger.Info("student registered", zap.Int64("student_id", student.ID), zap.String("code", student.Code))
	return student, nil
}

// isUniqueViolation reports whether err carries a Postgres unique constraint failure, which is how a concurrent
// registration of the same code surfaces once both callers passed the existence check.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nonNilStudents(students []models.Student) []models.Student {
	if students == nil {
		return []models.Student{}
	}
	return students
}
