package dto

// RegisterStudentRequest holds the payload for registering a student.
type RegisterStudentRequest struct {
	FirstName string  `json:"nome" validate:"required"`
	LastName  string  `json:"sobrenome" validate:"required"`
	Code      string  `json:"codigo" validate:"required"`
	ProgramID string  `json:"programaId" validate:"required"`
	Photo     *string `json:"foto"`
}
