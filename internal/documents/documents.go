// Package documents validates and formats Brazilian taxpayer identifiers.
//
// CPF is the 11-digit personal identifier, CNPJ the 14-digit business
// identifier. Both carry two trailing check digits computed with weighted
// modular sums over the preceding digits. Formatting is cosmetic only and
// must never be used as a validity signal.
package documents

import "strings"

// CPF check digits use descending weights; CNPJ uses fixed weight cycles.
var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Clean strips every non-digit character. Empty input yields empty output.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF reports whether digits is a structurally valid CPF.
// Inputs that are not exactly 11 digits fail; they are never padded or
// truncated. Repeated-digit sequences ("00000000000" etc.) are known
// invalid and rejected before the checksum.
func ValidateCPF(digits string) bool {
	if len(digits) != 11 || !allDigits(digits) {
		return false
	}
	if allSame(digits) {
		return false
	}

	// First check digit: weights 10..2 over digits[0..8]
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	if cpfCheckDigit(sum) != int(digits[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over digits[0..9]
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	return cpfCheckDigit(sum) == int(digits[10]-'0')
}

// cpfCheckDigit derives a CPF check digit from a weighted sum.
// remainder 10 and 11 collapse to 0.
func cpfCheckDigit(sum int) int {
	remainder := (sum * 10) % 11
	if remainder >= 10 {
		return 0
	}
	return remainder
}

// ValidateCNPJ reports whether digits is a structurally valid CNPJ.
func ValidateCNPJ(digits string) bool {
	if len(digits) != 14 || !allDigits(digits) {
		return false
	}
	if allSame(digits) {
		return false
	}

	if cnpjCheckDigit(digits[:12], cnpjWeightsFirst) != int(digits[12]-'0') {
		return false
	}
	return cnpjCheckDigit(digits[:13], cnpjWeightsSecond) == int(digits[13]-'0')
}

// cnpjCheckDigit derives a CNPJ check digit from the given digit prefix
// and weight cycle. remainder < 2 maps to 0, otherwise 11 - remainder.
func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// FormatCPF renders an 11-digit CPF as DDD.DDD.DDD-DD.
// Input of any other length is returned unchanged.
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

// FormatCNPJ renders a 14-digit CNPJ as DD.DDD.DDD/DDDD-DD.
// Input of any other length is returned unchanged.
func FormatCNPJ(digits string) string {
	if len(digits) != 14 {
		return digits
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
