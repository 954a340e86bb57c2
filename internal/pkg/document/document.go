package document

import "strings"

// Digits strips every non-digit character
func Digits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks length and both check digits of a CPF
func ValidCPF(value string) bool {
	cpf := Digits(value)
	if len(cpf) != 11 || allSame(cpf) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		d := (sum * 10) % 11
		if d == 10 {
			d = 0
		}
		if d != int(cpf[n]-'0') {
			return false
		}
	}
	return true
}

// ValidCNPJ checks length and both check digits of a CNPJ
func ValidCNPJ(value string) bool {
	cnpj := Digits(value)
	if len(cnpj) != 14 || allSame(cnpj) {
		return false
	}
	for _, n := range []int{12, 13} {
		sum := 0
		pos := n - 7
		for i := 0; i < n; i++ {
			sum += int(cnpj[i]-'0') * pos
			pos--
			if pos < 2 {
				pos = 9
			}
		}
		d := 0
		if sum%11 >= 2 {
			d = 11 - sum%11
		}
		if d != int(cnpj[n]-'0') {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	return strings.Count(s, s[:1]) == len(s)
}
