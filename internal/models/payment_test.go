package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentType(t *testing.T) {
	got, ok := ParsePaymentType(" transferencia ")
	assert.True(t, ok)
	assert.Equal(t, PaymentTypeTransfer, got)

	_, ok = ParsePaymentType("CARTAO")
	assert.False(t, ok)
}

func TestParsePaymentStatus(t *testing.T) {
	got, ok := ParsePaymentStatus("validado")
	assert.True(t, ok)
	assert.Equal(t, PaymentStatusValidated, got)

	_, ok = ParsePaymentStatus("")
	assert.False(t, ok)
}

func TestPaymentJSONShape(t *testing.T) {
	file := "file:///tmp/a.pdf"
	date, err := ParseDate("2024-01-10")
	require.NoError(t, err)
	payment := Payment{
		ID:        7,
		Date:      date,
		Amount:    1500,
		Type:      PaymentTypeTransfer,
		Status:    PaymentStatusCreated,
		File:      &file,
		StudentID: 1,
		Student:   Student{ID: 1, FirstName: "Vanessa", LastName: "Mota", Code: "4567", ProgramID: "LTA1"},
	}

	raw, err := json.Marshal(payment)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2024-01-10", decoded["data"])
	assert.Equal(t, "TRANSFERENCIA", decoded["tipoPagamento"])
	assert.Equal(t, "CRIADO", decoded["pagamentoStatus"])
	assert.Equal(t, file, decoded["file"])
	assert.NotContains(t, decoded, "estudante_id")
	student := decoded["estudante"].(map[string]interface{})
	assert.Equal(t, "4567", student["codigo"])
	assert.Equal(t, "LTA1", student["programaId"])
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-01-10", d.String())

	require.NoError(t, d.Scan([]byte("2024-02-01T00:00:00Z")))
	assert.Equal(t, "2024-02-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestPaymentHasReceipt(t *testing.T) {
	empty := " "
	assert.False(t, (&Payment{}).HasReceipt())
	assert.False(t, (&Payment{File: &empty}).HasReceipt())
	file := "file:///tmp/a.pdf"
	assert.True(t, (&Payment{File: &file}).HasReceipt())
}
