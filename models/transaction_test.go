package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_UTR(t *testing.T) {
	utr := "123456789012"
	assert.Equal(t, utr, Transaction{UTRNumber: &utr}.UTR())
	assert.Empty(t, Transaction{}.UTR())
}

func TestTransaction_CreatedTime(t *testing.T) {
	for _, createdAt := range []string{"2026-10-01T10:00:00Z", "2026-10-01T10:00:00.123456", "2026-10-01 10:00:00"} {
		ts, ok := Transaction{CreatedAt: createdAt}.CreatedTime()
		assert.True(t, ok, createdAt)
		assert.Equal(t, 2026, ts.Year())
	}

	_, ok := Transaction{CreatedAt: "yesterday"}.CreatedTime()
	assert.False(t, ok)
}
