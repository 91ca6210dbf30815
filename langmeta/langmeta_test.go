package langmeta

import "testing"

func TestResolve_ExactMatch(t *testing.T) {
	m := Resolve("de")
	if m.Name != "German" {
		t.Errorf("Resolve(de).Name = %q, want German", m.Name)
	}
}

func TestResolve_Variants(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"pt-BR", "Portuguese (Brazil)"},
		{"pt_BR", "Portuguese (Brazil)"},
		{"PT-br", "Portuguese (Brazil)"},
		{"es-CL", "Spanish"}, // unknown region falls back to base language
		{"zh_CN", "Chinese (Simplified)"},
	}
	for _, tc := range tests {
		got := Resolve(tc.code)
		if got.Name != tc.want {
			t.Errorf("Resolve(%q).Name = %q, want %q", tc.code, got.Name, tc.want)
		}
	}
}

func TestResolve_UnknownKeepsCode(t *testing.T) {
	m := Resolve("xx")
	if m.Name != "xx" {
		t.Errorf("Resolve(xx).Name = %q, want the code itself", m.Name)
	}
}

func TestName_UnknownFallsBackToDefault(t *testing.T) {
	if got := Name("xx"); got != DefaultName {
		t.Errorf("Name(xx) = %q, want %q", got, DefaultName)
	}
	if got := Name(""); got != DefaultName {
		t.Errorf("Name(\"\") = %q, want %q", got, DefaultName)
	}
}

func TestName_Known(t *testing.T) {
	if got := Name("es"); got != "Spanish" {
		t.Errorf("Name(es) = %q, want Spanish", got)
	}
	if got := Name("fr_CA"); got != "French (Canada)" {
		t.Errorf("Name(fr_CA) = %q, want French (Canada)", got)
	}
}
