package models

import "strings"

// PaymentType enumerates how a payment was made.
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "DINHEIRO"
	PaymentTypeCheck    PaymentType = "CHEQUE"
	PaymentTypeTransfer PaymentType = "TRANSFERENCIA"
	PaymentTypeDeposit  PaymentType = "DEPOSITO"
)

// PaymentTypes lists every accepted payment type.
var PaymentTypes = []PaymentType{PaymentTypeCash, PaymentTypeCheck, PaymentTypeTransfer, PaymentTypeDeposit}

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	for _, known := range PaymentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParsePaymentType normalises raw input and reports whether it is a known type.
func ParsePaymentType(raw string) (PaymentType, bool) {
	t := PaymentType(strings.ToUpper(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// PaymentStatus tracks the validation state of a payment.
type PaymentStatus string

const (
	// PaymentStatusCreated is assigned on creation, before validation.
	PaymentStatusCreated PaymentStatus = "CRIADO"
	// PaymentStatusValidated marks a payment accepted by the validating actor.
	PaymentStatusValidated PaymentStatus = "VALIDADO"
	// PaymentStatusRejected marks a refused payment.
	PaymentStatusRejected PaymentStatus = "RECUSADO"
)

// PaymentStatuses lists every accepted payment status.
var PaymentStatuses = []PaymentStatus{PaymentStatusCreated, PaymentStatusValidated, PaymentStatusRejected}

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParsePaymentStatus normalises raw input and reports whether it is a known status.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	s := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Payment is a financial record owned by exactly one student.
type Payment struct {
	ID        int64         `db:"id" json:"id"`
	Date      Date          `db:"data" json:"data"`
	Amount    float64       `db:"valor" json:"valor"`
	Type      PaymentType   `db:"tipo_pagamento" json:"tipoPagamento"`
	Status    PaymentStatus `db:"pagamento_status" json:"pagamentoStatus"`
	File      *string       `db:"arquivo" json:"file"`
	StudentID int64         `db:"estudante_id" json:"-"`
	Student   Student       `db:"estudante" json:"estudante"`
}

// HasReceipt reports whether a receipt file is associated with the payment.
func (p *Payment) HasReceipt() bool {
	return p != nil && p.File != nil && strings.TrimSpace(*p.File) != ""
}

// PaymentFilter narrows payment listings by exact-match fields. Empty fields are ignored.
type PaymentFilter struct {
	Status      PaymentStatus
	Type        PaymentType
	StudentCode string
}
