package handler

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	"github.com/noah-isme/sistema-pagamento-api/internal/service"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
	"github.com/noah-isme/sistema-pagamento-api/pkg/response"
)

const (
	// MaxReceiptSize bounds uploaded receipt files.
	MaxReceiptSize = 10 << 20
	// maxPaymentFormSize caps the whole multipart body: the receipt plus room for the text fields and part headers.
	maxPaymentFormSize = MaxReceiptSize + 64<<10
	multipartMemory    = 8 << 20
)

type paymentService interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, receipt []byte) (*models.Payment, error)
	Get(ctx context.Context, id int64) (*models.Payment, error)
	FetchReceipt(ctx context.Context, id int64) ([]byte, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdatePaymentStatusRequest) (*models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	ListByStudentCode(ctx context.Context, code string) ([]models.Payment, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)
	ListByType(ctx context.Context, paymentType models.PaymentType) ([]models.Payment, error)
}

type exportService interface {
	Export(ctx context.Context, req dto.PaymentExportRequest) (*service.ExportResult, error)
}

// PaymentHandler exposes payment endpoints.
type PaymentHandler struct {
	payments paymentService
	exports  exportService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments paymentService, exports exportService) *PaymentHandler {
	return &PaymentHandler{payments: payments, exports: exports}
}

// Create godoc
// @Summary Record a payment with its receipt
// @Tags Pagamentos
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt (PDF)"
// @Param valor formData number true "Amount"
// @Param tipoPagamento formData string true "DINHEIRO, CHEQUE, TRANSFERENCIA or DEPOSITO"
// @Param data formData string true "Payment date (YYYY-MM-DD)"
// @Param codigoEstudante formData string true "Student code"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /pagamento [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPaymentFormSize)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooLarge, "receipt exceeds the maximum upload size"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "expected a multipart form"))
		return
	}
	if _, ok := c.GetPostForm("valor"); !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "valor is required"))
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment form"))
		return
	}
	if math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "valor must be a finite amount"))
		return
	}
	if t, ok := models.ParsePaymentType(string(req.Type)); ok {
		req.Type = t
	}

	receipt, err := readReceipt(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), req, receipt)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Get godoc
// @Summary Get a payment by id
// @Tags Pagamentos
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pagamentos/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// List godoc
// @Summary List payments
// @Tags Pagamentos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pagamentos [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.payments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, payments)
}

// ListByStudent godoc
// @Summary List payments of a student
// @Tags Pagamentos
// @Produce json
// @Param codigo path string true "Student code"
// @Success 200 {object} response.Envelope
// @Router /estudantes/{codigo}/pagamentos [get]
func (h *PaymentHandler) ListByStudent(c *gin.Context) {
	payments, err := h.payments.ListByStudentCode(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, payments)
}

// ListByStatus godoc
// @Summary List payments by status
// @Tags Pagamentos
// @Produce json
// @Param pagamentoStatus query string true "CRIADO, VALIDADO or RECUSADO"
// @Success 200 {object} response.Envelope
// @Router /pagamento/porStatus [get]
func (h *PaymentHandler) ListByStatus(c *gin.Context) {
	status, err := parseStatus(c.Query("pagamentoStatus"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.payments.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, payments)
}

// ListByType godoc
// @Summary List payments by type
// @Tags Pagamentos
// @Produce json
// @Param tipoPagamento query string true "DINHEIRO, CHEQUE, TRANSFERENCIA or DEPOSITO"
// @Success 200 {object} response.Envelope
// @Router /pagamento/porTipo [get]
func (h *PaymentHandler) ListByType(c *gin.Context) {
	paymentType, err := parseType(c.Query("tipoPagamento"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.payments.ListByType(c.Request.Context(), paymentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, payments)
}

// UpdateStatus godoc
// @Summary Overwrite the status of a payment
// @Tags Pagamentos
// @Produce json
// @Param pagamentoId path int true "Payment ID"
// @Param pagamentoStatus query string true "CRIADO, VALIDADO or RECUSADO"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /pagamento/{pagamentoId}/atualizarPagamento [put]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c.Param("pagamentoId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := parseStatus(c.Query("pagamentoStatus"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payment, err := h.payments.UpdateStatus(c.Request.Context(), id, dto.UpdatePaymentStatusRequest{Status: status})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// Receipt godoc
// @Summary Download the receipt of a payment
// @Tags Pagamentos
// @Produce application/pdf
// @Param pagamentoId path int true "Payment ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /pagamentoArquivo/{pagamentoId} [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	id, err := parseID(c.Param("pagamentoId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.payments.FetchReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}

// Export godoc
// @Summary Export payments
// @Tags Pagamentos
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Param pagamentoStatus query string false "Status filter"
// @Param tipoPagamento query string false "Type filter"
// @Param codigoEstudante query string false "Student code filter"
// @Success 200 {file} binary
// @Router /pagamentos/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	req := dto.PaymentExportRequest{
		Format: dto.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("format")))),
		Filter: models.PaymentFilter{StudentCode: strings.TrimSpace(c.Query("codigoEstudante"))},
	}
	if raw := c.Query("pagamentoStatus"); raw != "" {
		status, err := parseStatus(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.Filter.Status = status
	}
	if raw := c.Query("tipoPagamento"); raw != "" {
		paymentType, err := parseType(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		req.Filter.Type = paymentType
	}

	result, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.ContentType, result.Filename, result.Content)
}

func readReceipt(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if header.Size > MaxReceiptSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "receipt exceeds the maximum upload size")
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to read upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to read upload")
	}
	return data, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid payment id")
	}
	return id, nil
}

func parseStatus(raw string) (models.PaymentStatus, error) {
	status, ok := models.ParsePaymentStatus(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid pagamentoStatus")
	}
	return status, nil
}

func parseType(raw string) (models.PaymentType, error) {
	paymentType, ok := models.ParsePaymentType(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid tipoPagamento")
	}
	return paymentType, nil
}
