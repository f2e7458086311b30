package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sistema-pagamento-api/internal/models"
)

const paymentSelect = `SELECT p.id, p.data, p.valor, p.tipo_pagamento, p.pagamento_status, p.arquivo, p.estudante_id,
       e.id AS "estudante.id", e.nome AS "estudante.nome", e.sobrenome AS "estudante.sobrenome",
       e.codigo AS "estudante.codigo", e.programa_id AS "estudante.programa_id", e.foto AS "estudante.foto"
FROM pagamentos p JOIN estudantes e ON e.id = p.estudante_id`

// PaymentRepository handles payment persistence.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment row and populates its generated id.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	const query = `INSERT INTO pagamentos (data, valor, tipo_pagamento, pagamento_status, arquivo, estudante_id)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		payment.Date,
		payment.Amount,
		payment.Type,
		payment.Status,
		payment.File,
		payment.StudentID,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByID retrieves one payment with its student. Returns sql.ErrNoRows when absent.
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, paymentSelect+" WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns payments matching every non-empty filter field.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	builder := strings.Builder{}
	builder.WriteString(paymentSelect)
	args := make([]interface{}, 0, 3)
	conditions := make([]string, 0, 3)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.pagamento_status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("p.tipo_pagamento = $%d", len(args)))
	}
	if filter.StudentCode != "" {
		args = append(args, filter.StudentCode)
		conditions = append(conditions, fmt.Sprintf("e.codigo = $%d", len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY p.id")

	payments := make([]models.Payment, 0)
	if err := r.db.SelectContext(ctx, &payments, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// UpdateStatus overwrites the status of one payment. Returns sql.ErrNoRows when the id is unknown.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	const query = `UPDATE pagamentos SET pagamento_status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check payment update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
