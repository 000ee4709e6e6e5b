package domain

import "testing"

func TestNormalizeTLD(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "com", want: ".com"},
		{in: ".COM", want: ".com"},
		{in: " .io ", want: ".io"},
		{in: "co.uk", want: ".co.uk"},
		{in: "", wantErr: true},
		{in: ".", wantErr: true},
		{in: "bad_tld", wantErr: true},
		{in: "-io", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeTLD(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeTLD(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeTLD(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeTLD(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSuffix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "-App", want: "-app"},
		{in: "123", want: "123"},
		{in: "app!", wantErr: true},
		{in: "app-", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeSuffix(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeSuffix(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeSuffix(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeSuffix(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
