package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is idempotent; it runs on every boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS estudantes (
		id BIGSERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		sobrenome TEXT NOT NULL,
		codigo TEXT NOT NULL UNIQUE,
		programa_id TEXT NOT NULL,
		foto TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pagamentos (
		id BIGSERIAL PRIMARY KEY,
		data DATE NOT NULL,
		valor DOUBLE PRECISION NOT NULL CHECK (valor >= 0 AND valor < 'Infinity'),
		tipo_pagamento TEXT NOT NULL CHECK (tipo_pagamento IN ('DINHEIRO', 'CHEQUE', 'TRANSFERENCIA', 'DEPOSITO')),
		pagamento_status TEXT NOT NULL CHECK (pagamento_status IN ('CRIADO', 'VALIDADO', 'RECUSADO')),
		arquivo TEXT NULL,
		estudante_id BIGINT NOT NULL REFERENCES estudantes (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_estudantes_programa_id ON estudantes (programa_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pagamentos_estudante_id ON pagamentos (estudante_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pagamentos_status ON pagamentos (pagamento_status)`,
	`CREATE INDEX IF NOT EXISTS idx_pagamentos_tipo ON pagamentos (tipo_pagamento)`,
}

// Migrate applies the schema inside a single transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
