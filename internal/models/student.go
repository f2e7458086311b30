package models

// Student represents a learner registered in the payment system.
type Student struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"nome" json:"nome"`
	LastName  string  `db:"sobrenome" json:"sobrenome"`
	Code      string  `db:"codigo" json:"codigo"`
	ProgramID string  `db:"programa_id" json:"programaId"`
	Photo     *string `db:"foto" json:"foto"`
}
