package accountnumber

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevincoe/bankcore/internal/domain"
)

func fixedClock(millis int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(millis)
	}
}

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		digits   string
		expected byte
	}{
		// sum = 231, 231 % 11 = 0 -> remainder < 2 -> '0'
		{"01123456789", '0'},
		// sum = 10, 10 % 11 = 10 -> 11 - 10 = 1
		{"02000000001", '1'},
		// all zeros -> sum 0 -> '0'
		{"00000000000", '0'},
	}

	for _, tt := range tests {
		assert.Equal(t, string(tt.expected), string(CheckDigit(tt.digits)), "digits %s", tt.digits)
	}
}

func TestGenerateFormat(t *testing.T) {
	gen := New(fixedClock(1723123456789), rand.New(rand.NewSource(1)))

	number := gen.Generate(domain.AccountTypeChecking)

	body, check, found := strings.Cut(number, "-")
	require.True(t, found)
	assert.Len(t, body, 11)
	assert.Len(t, check, 1)
	assert.Equal(t, "01", body[:2])
	// base is the low 6 digits of the millisecond epoch
	assert.Equal(t, "456789", body[2:8])
}

func TestGenerateDeterministicUnderFixedSources(t *testing.T) {
	a := New(fixedClock(1723123456789), rand.New(rand.NewSource(42)))
	b := New(fixedClock(1723123456789), rand.New(rand.NewSource(42)))

	assert.Equal(t, a.Generate(domain.AccountTypeSavings), b.Generate(domain.AccountTypeSavings))
}

func TestGeneratePrefixPerCategory(t *testing.T) {
	gen := New(fixedClock(1723123456789), rand.New(rand.NewSource(7)))

	assert.True(t, strings.HasPrefix(gen.Generate(domain.AccountTypeChecking), "01"))
	assert.True(t, strings.HasPrefix(gen.Generate(domain.AccountTypeSavings), "02"))
	assert.True(t, strings.HasPrefix(gen.Generate(domain.AccountTypeBusiness), "03"))
}

// Checksum property: for any generated number, recomputing the weighted
// cyclic checksum over the 11-digit body reproduces the trailing digit.
func TestGeneratedNumbersVerify(t *testing.T) {
	gen := New(time.Now, rand.New(rand.NewSource(99)))

	for i := 0; i < 500; i++ {
		for _, at := range []domain.AccountType{
			domain.AccountTypeChecking,
			domain.AccountTypeSavings,
			domain.AccountTypeBusiness,
		} {
			number := gen.Generate(at)
			assert.True(t, Verify(number), "generated number %s failed verification", number)
		}
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"01123456789",    // no check digit
		"01123456789-00", // two check digits
		"0112345678-0",   // short body
		"01123456789-1",  // wrong check digit (correct is 0)
		"0112345678a-0",  // non-digit body
	}

	for _, number := range tests {
		assert.False(t, Verify(number), "expected %q to fail verification", number)
	}
}

func TestGenerateUnknownTypePanics(t *testing.T) {
	gen := NewDefault()
	assert.Panics(t, func() {
		gen.Generate(domain.AccountType("bogus"))
	})
}

func TestPrefix(t *testing.T) {
	p, ok := Prefix(domain.AccountTypeBusiness)
	require.True(t, ok)
	assert.Equal(t, "03", p)

	_, ok = Prefix(domain.AccountType("bogus"))
	assert.False(t, ok)
}
