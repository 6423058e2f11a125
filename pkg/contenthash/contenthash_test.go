package contenthash

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	// Закреплённые дайджесты: менять их — значит менять идентичность
	// всех уже загруженных записей.
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", Sum("hello", "world"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Sum())
	assert.Equal(t, "196311ef808ecf30ee4e274a3e263708", Sum("Điện thoại bàn"))
}

func TestSumFieldOrderMatters(t *testing.T) {
	assert.NotEqual(t, Sum("a", "b"), Sum("b", "a"))
}

func TestSumEmptyFieldShiftsDigest(t *testing.T) {
	// Пустое поле не схлопывается: ("a", "", "b") и ("a", "b") — разные кортежи.
	assert.NotEqual(t, Sum("a", "b"), Sum("a", "", "b"))
}

func TestCanonicalForms(t *testing.T) {
	assert.Equal(t, "42", Int(42))
	assert.Equal(t, "-7", Int(-7))

	assert.Equal(t, "4.500000", Float(4.5))
	assert.Equal(t, "0.000000", Float(0))

	assert.Equal(t, "0.100000", Decimal(decimal.NewFromFloat(0.1)))
	assert.Equal(t, "1000000.000000", Decimal(decimal.NewFromInt(1000000)))

	ts := time.Date(2025, 6, 1, 13, 45, 9, 0, time.UTC)
	assert.Equal(t, "2025-06-01 13:45:09", Time(ts))
}

func TestNullForms(t *testing.T) {
	assert.Equal(t, "", NullTime(nil))
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02 00:00:00", NullTime(&ts))

	assert.Equal(t, "", NullString(nil))
	s := "x"
	assert.Equal(t, "x", NullString(&s))

	assert.Equal(t, "", NullInt(nil))
	v := int64(5)
	assert.Equal(t, "5", NullInt(&v))
}
