package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{name: "full version", input: "1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{name: "v prefix", input: "v18.19.1", want: Version{Major: 18, Minor: 19, Patch: 1}},
		{name: "two components", input: "22.04", want: Version{Major: 22, Minor: 4}},
		{name: "single component", input: "18", want: Version{Major: 18}},
		{name: "prerelease suffix", input: "1.1.0-rc1", want: Version{Major: 1, Minor: 1, Extras: "-rc1"}},
		{name: "build metadata", input: "2.0.0+build5", want: Version{Major: 2, Extras: "+build5"}},
		{name: "surrounding spaces", input: " v1.0.0 ", want: Version{Major: 1}},
		{name: "empty", input: "", wantErr: ErrEmptyVersion},
		{name: "only spaces", input: "   ", wantErr: ErrEmptyVersion},
		{name: "four components", input: "1.2.3.4", wantErr: ErrTooManyComponents},
		{name: "non numeric", input: "1.two.3", wantErr: ErrNonNumeric},
		{name: "bare word", input: "latest", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "1.0.0", b: "1.0.0", want: 0},
		{name: "equal different precision", a: "18", b: "18.0.0", want: 0},
		{name: "major greater", a: "2.0.0", b: "1.9.9", want: 1},
		{name: "minor less", a: "1.0.5", b: "1.1.0", want: -1},
		{name: "patch greater", a: "1.1.1", b: "1.1.0", want: 1},
		{name: "extras ignored", a: "1.1.0-rc1", b: "1.1.0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareStrings(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CompareStrings(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}

	if _, err := CompareStrings("bogus", "1.0.0"); err == nil {
		t.Error("expected error for unparsable version")
	}
}

func TestAtLeast(t *testing.T) {
	min := MustParse("18.0.0")
	if !MustParse("v20.11.1").AtLeast(min) {
		t.Error("expected 20.11.1 >= 18.0.0")
	}
	if MustParse("16.20.2").AtLeast(min) {
		t.Error("did not expect 16.20.2 >= 18.0.0")
	}
	if !MustParse("18.0.0").AtLeast(min) {
		t.Error("expected equality to satisfy AtLeast")
	}
}
