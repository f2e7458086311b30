package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sistema-pagamento-api/internal/models"
)

func TestSeedServiceSeedsEmptyDatabase(t *testing.T) {
	students := newMockStudentRepo()
	payments := newPaymentRepoStub()
	svc := NewSeedService(students, payments, nil)
	day := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	result, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Students: 3, Payments: 3 * PaymentsPerSeedStudent}, result)
	assert.Contains(t, students.students, "4567")
	assert.Contains(t, students.students, "51234")
	assert.Contains(t, students.students, "124990")
	require.Len(t, payments.payments, 30)

	perStudent := map[int64]int{}
	for _, p := range payments.payments {
		perStudent[p.StudentID]++
		assert.Equal(t, models.PaymentStatusCreated, p.Status)
		assert.True(t, p.Type.Valid())
		assert.GreaterOrEqual(t, p.Amount, 1000.0)
		assert.Less(t, p.Amount, 21000.0)
		assert.Equal(t, "2024-03-05", p.Date.String())
		assert.False(t, p.HasReceipt())
	}
	for id, n := range perStudent {
		assert.Equal(t, PaymentsPerSeedStudent, n, "student %d", id)
	}
}

func TestSeedServiceSkipsExistingStudents(t *testing.T) {
	students := newMockStudentRepo(vanessa)
	payments := newPaymentRepoStub()
	svc := NewSeedService(students, payments, nil)

	result, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Students)
	assert.Equal(t, 2*PaymentsPerSeedStudent, result.Payments)

	again, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, again)
	assert.Len(t, payments.payments, 2*PaymentsPerSeedStudent)
}
