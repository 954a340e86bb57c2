package document

import "testing"

func TestDigits(t *testing.T) {
	if got := Digits("11.222.333/0001-81"); got != "11222333000181" {
		t.Fatalf("Digits = %q", got)
	}
	if got := Digits("abc"); got != "" {
		t.Fatalf("Digits = %q", got)
	}
}

func TestValidCNPJ(t *testing.T) {
	valid := []string{"11.222.333/0001-81", "11444777000161"}
	invalid := []string{"11222333000180", "1122233300018", "00000000000000", ""}

	for _, v := range valid {
		if !ValidCNPJ(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if ValidCNPJ(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestValidCPF(t *testing.T) {
	if !ValidCPF("529.982.247-25") {
		t.Fatalf("expected valid CPF")
	}
	for _, v := range []string{"52998224724", "11111111111", "123"} {
		if ValidCPF(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}
