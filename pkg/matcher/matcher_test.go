package matcher

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePattern(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"dead", "dead", false},
		{"DEAD", "dead", false},
		{"  Cafe  ", "cafe", false},
		{"0123456789abcdef", "0123456789abcdef", false},
		{strings.Repeat("a", 32), strings.Repeat("a", 32), false},
		{"", "", true},
		{"   ", "", true},
		{"xyz", "", true},
		{"dead beef", "", true},
		{"g", "", true},
		{strings.Repeat("a", 33), "", true},
	}
	for _, tc := range cases {
		got, err := ValidatePattern(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ValidatePattern(%q): expected error", tc.in)
				continue
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ValidatePattern(%q): error %v is not a ValidationError", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidatePattern(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ValidatePattern(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	s, err := Spec{Mode: Prefix, Pattern: "DeAd"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Pattern != "dead" {
		t.Fatalf("normalized pattern = %q, want dead", s.Pattern)
	}

	if _, err := (Spec{Mode: Contains, Pattern: "nothex"}).Normalize(); err == nil {
		t.Fatal("expected error for non-hex contains pattern")
	}

	// Regex bypasses hex validation but must compile.
	if _, err := (Spec{Mode: Regex, Pattern: "^(dead|beef)"}).Normalize(); err != nil {
		t.Fatalf("regex normalize: %v", err)
	}
	_, err = Spec{Mode: Regex, Pattern: "("}.Normalize()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for bad regex, got %v", err)
	}
	if _, err := (Spec{Mode: Regex, Pattern: ""}).Normalize(); err == nil {
		t.Fatal("expected error for empty regex pattern")
	}
}

func TestMatchModes(t *testing.T) {
	const addr = "6ec6cafe00000000000000000000beef"

	cases := []struct {
		spec Spec
		want bool
	}{
		{Spec{Mode: Prefix, Pattern: "6ec6"}, true},
		{Spec{Mode: Prefix, Pattern: "cafe"}, false},
		{Spec{Mode: Suffix, Pattern: "beef"}, true},
		{Spec{Mode: Suffix, Pattern: "6ec6"}, false},
		{Spec{Mode: Contains, Pattern: "cafe"}, true},
		{Spec{Mode: Contains, Pattern: "beef"}, true},
		{Spec{Mode: Contains, Pattern: "dddd"}, false},
		{Spec{Mode: Regex, Pattern: "^6ec6.*beef$"}, true},
		{Spec{Mode: Regex, Pattern: "cafe|f00d"}, true},
		{Spec{Mode: Regex, Pattern: "^beef"}, false},
	}
	for _, tc := range cases {
		c, err := tc.spec.Compile()
		if err != nil {
			t.Fatalf("Compile(%v %q): %v", tc.spec.Mode, tc.spec.Pattern, err)
		}
		if got := c.MatchString(addr); got != tc.want {
			t.Errorf("%v %q on %s = %v, want %v", tc.spec.Mode, tc.spec.Pattern, addr, got, tc.want)
		}
		// Byte and string paths must agree.
		if got := c.Match([]byte(addr)); got != tc.want {
			t.Errorf("Match bytes disagrees with MatchString for %v %q", tc.spec.Mode, tc.spec.Pattern)
		}
	}
}

func TestRegexCaseSensitivity(t *testing.T) {
	// Addresses are lowercase hex; an uppercase regex only matches when
	// the default case-insensitive search is in effect.
	insensitive, err := Spec{Mode: Regex, Pattern: "^DEAD"}.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !insensitive.MatchString("dead00000000000000000000000000ff") {
		t.Fatal("case-insensitive regex should match lowercase address")
	}

	sensitive, err := Spec{Mode: Regex, Pattern: "^DEAD", CaseSensitive: true}.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if sensitive.MatchString("dead00000000000000000000000000ff") {
		t.Fatal("case-sensitive regex should not match lowercase address")
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	spec := Spec{Mode: Contains, Pattern: "beef"}
	a, err := spec.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b, err := spec.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, addr := range []string{
		"beef0000000000000000000000000000",
		"0000000000000000000000000000beef",
		"00000000000000000000000000000000",
	} {
		if a.MatchString(addr) != b.MatchString(addr) {
			t.Fatalf("independent compilations disagree on %s", addr)
		}
	}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		Prefix:   "prefix",
		Suffix:   "suffix",
		Contains: "contains",
		Regex:    "regex",
		Mode(99): "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}
