package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		0:         "$0",
		85000:     "$85,000",
		120000.49: "$120,000",
		999.5:     "$1,000",
		-1200.4:   "-$1,200",
	}
	for in, want := range cases {
		assert.Equal(t, want, Currency(in), "amount %v", in)
	}
}

func TestDates(t *testing.T) {
	at := time.Date(2024, time.March, 15, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mar 15, 2024", Date(at))
	assert.Equal(t, "Mar 15, 2024 2:05 PM", DateTime(at))
	assert.Equal(t, "", Date(time.Time{}))
	assert.Equal(t, "", Relative(time.Time{}))
	assert.Equal(t, "3 days ago", Relative(time.Now().Add(-72*time.Hour-time.Minute)))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, "75%", Percentage(75, 0))
	assert.Equal(t, "66.7%", Percentage(66.666, 1))
	assert.Equal(t, "1,234,567", Number(1234567))
}
