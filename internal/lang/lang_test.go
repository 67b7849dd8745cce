package lang

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"  Ja  ", "ja"},
		{"Japanese", "ja"},
		{"chinese", "zhs"},
		{"zht", "zht"},
		{"", "en"},
		{"tlh", "tlh"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("zhs"); got != "Simplified Chinese" {
		t.Errorf("Display(zhs) = %q", got)
	}
	if got := Display("xx"); got != "xx" {
		t.Errorf("Display(xx) = %q", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known("ph") {
		t.Error("ph should be known")
	}
	if Known("xx") {
		t.Error("xx should not be known")
	}
}
