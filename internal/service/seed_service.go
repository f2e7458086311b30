package service

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-pagamento-api/internal/models"
)

// PaymentsPerSeedStudent is the number of payments generated for every seeded student.
const PaymentsPerSeedStudent = 10

var seedStudents = []models.Student{
	{FirstName: "Vanessa", LastName: "Mota", Code: "4567", ProgramID: "LTA1"},
	{FirstName: "Talita", LastName: "Cunha", Code: "51234", ProgramID: "LTA1"},
	{FirstName: "Rafael", LastName: "Nunes", Code: "124990", ProgramID: "LTA1"},
}

type seedStudentStore interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
}

type seedPaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
}

// SeedResult summarises what a seed run inserted.
type SeedResult struct {
	Students int
	Payments int
}

// SeedService fills an empty development database with sample students and payments.
type SeedService struct {
	students seedStudentStore
	payments seedPaymentStore
	logger   *zap.Logger
	rng      *rand.Rand
	now      func() time.Time
}

// NewSeedService constructs the seeder.
func NewSeedService(students seedStudentStore, payments seedPaymentStore, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := uint64(time.Now().UnixNano())
	return &SeedService{
		students: students,
		payments: payments,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(seed, seed>>1)),
		now:      time.Now,
	}
}

// Seed registers the sample students that do not exist yet and gives each new one a batch of CRIADO payments
// without receipt files.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	today := models.NewDate(s.now())
	for _, template := range seedStudents {
		exists, err := s.students.ExistsByCode(ctx, template.Code)
		if err != nil {
			return result, err
		}
		if exists {
			s.logger.Debug("seed student already present", zap.String("code", template.Code))
			continue
		}
		student := template
		if err := s.students.Create(ctx, &student); err != nil {
			return result, err
		}
		result.Students++

		for i := 0; i < PaymentsPerSeedStudent; i++ {
			payment := &models.Payment{
				Date:      today,
				Amount:    float64(1000 + s.rng.IntN(20000)),
				Type:      models.PaymentTypes[s.rng.IntN(len(models.PaymentTypes))],
				Status:    models.PaymentStatusCreated,
				StudentID: student.ID,
				Student:   student,
			}
			if err := s.payments.Create(ctx, payment); err != nil {
				return result, err
			}
			result.Payments++
		}
	}
	s.logger.Info("seed data applied", zap.Int("students", result.Students), zap.Int("payments", result.Payments))
	return result, nil
}
