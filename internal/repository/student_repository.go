package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sistema-pagamento-api/internal/models"
)

const studentColumns = `id, nome, sobrenome, codigo, programa_id, foto`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM estudantes ORDER BY id", studentColumns)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByCode fetches a student by business code. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM estudantes WHERE codigo = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByProgram returns students tagged with the program identifier.
func (r *StudentRepository) ListByProgram(ctx context.Context, programID string) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM estudantes WHERE programa_id = $1 ORDER BY id", studentColumns)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, programID); err != nil {
		return nil, fmt.Errorf("list students by program: %w", err)
	}
	return students, nil
}

// ExistsByCode checks whether a student with the code is already registered.
func (r *StudentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM estudantes WHERE codigo = $1 LIMIT 1", code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student code: %w", err)
	}
	return true, nil
}

// Create inserts a student and populates its generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO estudantes (nome, sobrenome, codigo, programa_id, foto)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, student.FirstName, student.LastName, student.Code, student.ProgramID, student.Photo).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
