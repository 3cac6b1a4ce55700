// Package accountnumber generates checksum-protected account numbers.
//
// An account number is <prefix><base><random>-<check digit>: a 2-digit
// category prefix, the low 6 digits of the creation time in millisecond
// epoch, a 3-digit random component, and a single check digit computed
// with a cyclic weighted sum over the 11 preceding digits.
//
// Two calls in the same millisecond with the same random draw collide.
// That residual probability is accepted: uniqueness at the service layer
// is enforced on the customer document, not the account number.
package accountnumber

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kevincoe/bankcore/internal/domain"
)

// checksumWeights is applied cyclically over the 11 digits.
var checksumWeights = []int{2, 3, 4, 5, 6, 7, 8, 9}

// prefixes maps account categories to their 2-digit number prefix.
var prefixes = map[domain.AccountType]string{
	domain.AccountTypeChecking: "01",
	domain.AccountTypeSavings:  "02",
	domain.AccountTypeBusiness: "03",
}

// Generator produces account numbers. The time and random sources are
// injected so generation is deterministic under test.
type Generator struct {
	now  func() time.Time
	rand *rand.Rand
}

// New creates a generator backed by the wall clock and the given seed
// source. rng must not be nil.
func New(now func() time.Time, rng *rand.Rand) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now, rand: rng}
}

// NewDefault creates a generator on the wall clock with a time-seeded
// random source.
func NewDefault() *Generator {
	return New(time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Generate produces an account number for the given category.
// An unknown category is a contract violation by the caller, not a
// runtime condition, so it panics.
func (g *Generator) Generate(accountType domain.AccountType) string {
	prefix, ok := prefixes[accountType]
	if !ok {
		panic(fmt.Sprintf("accountnumber: unknown account type %q", accountType))
	}

	millis := g.now().UnixMilli()
	base := fmt.Sprintf("%06d", millis%1_000_000)
	random := fmt.Sprintf("%03d", g.rand.Intn(1000))

	digits := prefix + base + random
	return digits + "-" + string(CheckDigit(digits))
}

// CheckDigit computes the check digit for an 11-digit account number body.
// The weight cycle [2,3,4,5,6,7,8,9] is applied positionally; remainder
// below 2 maps to '0', otherwise to 11 - remainder.
func CheckDigit(digits string) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * checksumWeights[i%len(checksumWeights)]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}

// Verify reports whether the trailing check digit of a formatted account
// number matches its body.
func Verify(accountNumber string) bool {
	body, check, ok := strings.Cut(accountNumber, "-")
	if !ok || len(body) != 11 || len(check) != 1 {
		return false
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}
	return CheckDigit(body) == check[0]
}

// Prefix returns the 2-digit prefix for a category and whether the
// category is known.
func Prefix(accountType domain.AccountType) (string, bool) {
	p, ok := prefixes[accountType]
	return p, ok
}
