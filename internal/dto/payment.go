package dto

import "github.com/noah-isme/sistema-pagamento-api/internal/models"

// CreatePaymentRequest carries the multipart fields submitted with a receipt upload.
type CreatePaymentRequest struct {
	Amount      float64            `form:"valor" json:"valor" validate:"gte=0"`
	Type        models.PaymentType `form:"tipoPagamento" json:"tipoPagamento" validate:"required,oneof=DINHEIRO CHEQUE TRANSFERENCIA DEPOSITO"`
	Date        string             `form:"data" json:"data" validate:"required,datetime=2006-01-02"`
	StudentCode string             `form:"codigoEstudante" json:"codigoEstudante" validate:"required"`
}

// UpdatePaymentStatusRequest carries the new status for a payment.
type UpdatePaymentStatusRequest struct {
	Status models.PaymentStatus `form:"pagamentoStatus" json:"pagamentoStatus" validate:"required,oneof=CRIADO VALIDADO RECUSADO"`
}

// ExportFormat selects the payment report encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// PaymentExportRequest captures export query parameters.
type PaymentExportRequest struct {
	Format ExportFormat
	Filter models.PaymentFilter
}
