package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	issuedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "42-1741944413000", Number(42, issuedAt))

	// Two orders issued in the same millisecond still get distinct numbers.
	assert.NotEqual(t, Number(1, issuedAt), Number(2, issuedAt))
}
