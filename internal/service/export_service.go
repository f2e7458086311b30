package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
	"github.com/noah-isme/sistema-pagamento-api/pkg/export"
)

var paymentExportHeaders = []string{"id", "data", "valor", "tipoPagamento", "pagamentoStatus", "codigoEstudante", "estudante", "programaId", "comprovante"}

type paymentSearcher interface {
	Search(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportResult is a rendered payment report ready to be streamed.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
	Rows        int
}

// ExportService renders payment listings as CSV, PDF or XLSX.
type ExportService struct {
	payments paymentSearcher
	csv      csvRenderer
	pdf      pdfRenderer
	xlsx     xlsxRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService; nil renderers fall back to the pkg/export defaults.
func NewExportService(payments paymentSearcher, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{payments: payments, csv: csv, pdf: pdf, xlsx: xlsx, logger: logger, now: time.Now}
}

// Export renders the payments matching req.Filter in req.Format.
func (s *ExportService) Export(ctx context.Context, req dto.PaymentExportRequest) (*ExportResult, error) {
	if req.Format == "" {
		req.Format = dto.ExportFormatCSV
	}
	payments, err := s.payments.Search(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	dataset := buildPaymentDataset(payments)
	stamp := s.now().UTC().Format("20060102150405")

	var (
		content     []byte
		contentType string
		ext         string
	)
	switch req.Format {
	case dto.ExportFormatCSV:
		content, err = s.csv.Render(dataset)
		contentType, ext = "text/csv", "csv"
	case dto.ExportFormatPDF:
		content, err = s.pdf.Render(dataset, "Relatório de pagamentos")
		contentType, ext = "application/pdf", "pdf"
	case dto.ExportFormatXLSX:
		content, err = s.xlsx.Render(dataset, "Pagamentos")
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render payment export")
	}

	s.logger.Info("payment export rendered", zap.String("format", string(req.Format)), zap.Int("rows", len(payments)))
	return &ExportResult{
		Content:     content,
		ContentType: contentType,
		Filename:    fmt.Sprintf("pagamentos_%s.%s", stamp, ext),
		Rows:        len(payments),
	}, nil
}

func buildPaymentDataset(payments []models.Payment) export.Dataset {
	rows := make([]map[string]string, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		receipt := "não"
		if p.HasReceipt() {
			receipt = "sim"
		}
		rows = append(rows, map[string]string{
			"id":              strconv.FormatInt(p.ID, 10),
			"data":            p.Date.String(),
			"valor":           strconv.FormatFloat(p.Amount, 'f', 2, 64),
			"tipoPagamento":   string(p.Type),
			"pagamentoStatus": string(p.Status),
			"codigoEstudante": p.Student.Code,
			"estudante":       p.Student.FirstName + " " + p.Student.LastName,
			"programaId":      p.Student.ProgramID,
			"comprovante":     receipt,
		})
	}
	return export.Dataset{Headers: paymentExportHeaders, Rows: rows}
}
