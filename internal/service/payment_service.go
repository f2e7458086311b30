package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-pagamento-api/internal/dto"
	"github.com/noah-isme/sistema-pagamento-api/internal/models"
	appErrors "github.com/noah-isme/sistema-pagamento-api/pkg/errors"
	"github.com/noah-isme/sistema-pagamento-api/pkg/storage"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus) error
}

type paymentStudentLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Student, error)
}

type receiptStorage interface {
	Store(data []byte) (string, error)
	Retrieve(locator string) ([]byte, error)
	Delete(locator string) error
}

// PaymentService coordinates receipt storage and the payment record lifecycle.
type PaymentService struct {
	payments  paymentRepository
	students  paymentStudentLookup
	receipts  receiptStorage
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service. metrics may be nil.
func NewPaymentService(payments paymentRepository, students paymentStudentLookup, receipts receiptStorage, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		payments:  payments,
		students:  students,
		receipts:  receipts,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// CreatePayment stores the receipt and records a new payment in CRIADO status for the student identified by
// req.StudentCode. The student is resolved before anything touches the file store. If the insert fails the
// stored receipt is removed; a crash between the two writes can still leave an orphaned file.
func (s *PaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, receipt []byte) (*models.Payment, error) {
	req.StudentCode = strings.TrimSpace(req.StudentCode)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "valor must be a finite amount")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment date")
	}

	student, err := s.students.FindByCode(ctx, req.StudentCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student not found with code: %s", req.StudentCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	locator, err := s.receipts.Store(receipt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to store receipt")
	}

	payment := &models.Payment{
		Date:      date,
		Amount:    req.Amount,
		Type:      req.Type,
		Status:    models.PaymentStatusCreated,
		File:      &locator,
		StudentID: student.ID,
		Student:   *student,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if delErr := s.receipts.Delete(locator); delErr != nil {
			s.logger.Warn("failed to remove receipt after insert failure", zap.String("locator", locator), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	s.metrics.RecordPaymentCreated(payment.Type, len(receipt))
	s.logger.Info("payment created",
		zap.Int64("payment_id", payment.ID),
		zap.String("student_code", student.Code),
		zap.String("type", string(payment.Type)),
	)
	return payment, nil
}

// Get returns one payment by id.
func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("payment not found with id: %d", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// FetchReceipt returns the receipt bytes stored for the payment.
func (s *PaymentService) FetchReceipt(ctx context.Context, id int64) ([]byte, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.HasReceipt() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("payment %d has no receipt", id))
	}
	data, err := s.receipts.Retrieve(*payment.File)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "receipt file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to read receipt")
	}
	return data, nil
}

// UpdateStatus overwrites the payment status. Any status may follow any other.
func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, req dto.UpdatePaymentStatusRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment status")
	}
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.payments.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("payment not found with id: %d", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment status")
	}
	previous := payment.Status
	payment.Status = req.Status
	s.metrics.RecordStatusUpdate(req.Status)
	s.logger.Info("payment status updated",
		zap.Int64("payment_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)),
	)
	return payment, nil
}

// List returns every payment.
func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.list(ctx, models.PaymentFilter{})
}

// ListByStudentCode returns the payments of one student. Unknown codes yield an empty list.
func (s *PaymentService) ListByStudentCode(ctx context.Context, code string) ([]models.Payment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student code is required")
	}
	return s.list(ctx, models.PaymentFilter{StudentCode: code})
}

// ListByStatus returns payments currently in status.
func (s *PaymentService) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid pagamentoStatus")
	}
	return s.list(ctx, models.PaymentFilter{Status: status})
}

// ListByType returns payments of the given type.
func (s *PaymentService) ListByType(ctx context.Context, paymentType models.PaymentType) ([]models.Payment, error) {
	if !paymentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid tipoPagamento")
	}
	return s.list(ctx, models.PaymentFilter{Type: paymentType})
}

// Search returns payments matching every non-empty field of filter.
func (s *PaymentService) Search(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid pagamentoStatus")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid tipoPagamento")
	}
	return s.list(ctx, filter)
}

func (s *PaymentService) list(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	payments, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}
