package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
	"github.com/noah-isme/sistema-pagamento-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.Student, error)
	GetByCode(ctx context.Context, code string) (*models.Student, error)
	ListByProgram(ctx context.Context, programID string) ([]models.Student, error)
	Register(ctx context.Context, req dto.RegisterStudentRequest) (*models.Student, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Estudantes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /estudantes [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students)
}

// Get godoc
// @Summary Get a student by code
// @Tags Estudantes
// @Produce json
// @Param codigo path string true "Student code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /estudantes/{codigo} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.GetByCode(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// ListByProgram godoc
// @Summary List students of a program
// @Tags Estudantes
// @Produce json
// @Param programaId query string true "Program identifier"
// @Success 200 {object} response.Envelope
// @Router /estudantesPorPrograma [get]
func (h *StudentHandler) ListByProgram(c *gin.Context) {
	students, err := h.students.ListByProgram(c.Request.Context(), c.Query("programaId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students)
}

// Register godoc
// @Summary Register a student
// @Tags Estudantes
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /estudantes [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	student, err := h.students.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}
