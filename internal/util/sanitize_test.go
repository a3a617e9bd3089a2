package util

import "testing"

func TestSanitize_ControlChars(t *testing.T) {
	got := Sanitize("hello\x00world\ttab\nline", MaxTextLen)
	want := "hello world tab line"
	if got != want {
		t.Errorf("Sanitize() = %q, want %q", got, want)
	}
}

func TestSanitize_Trim(t *testing.T) {
	got := Sanitize("  padded  ", MaxTextLen)
	if got != "padded" {
		t.Errorf("Sanitize() = %q, want %q", got, "padded")
	}
}

func TestSanitize_LengthCap(t *testing.T) {
	long := make([]byte, 0, 600)
	for i := 0; i < 600; i++ {
		long = append(long, 'a')
	}
	got := Sanitize(string(long), MaxTextLen)
	if len(got) != MaxTextLen {
		t.Errorf("len(Sanitize()) = %d, want %d", len(got), MaxTextLen)
	}
}

func TestSanitize_MultibyteCap(t *testing.T) {
	s := ""
	for i := 0; i < 150; i++ {
		s += "é"
	}
	got := Sanitize(s, MaxNameLen)
	if n := len([]rune(got)); n != MaxNameLen {
		t.Errorf("rune len = %d, want %d", n, MaxNameLen)
	}
}

func TestEuroToCent(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.01, 1},
		{12.34, 1234},
		{19.999, 2000},
		{100, 10000},
		{-5, -500},
	}
	for _, tt := range tests {
		if got := EuroToCent(tt.in); got != tt.want {
			t.Errorf("EuroToCent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCentToEuro(t *testing.T) {
	if got := CentToEuro(1234); got != 12.34 {
		t.Errorf("CentToEuro(1234) = %v, want 12.34", got)
	}
}
