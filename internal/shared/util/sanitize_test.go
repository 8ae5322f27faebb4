package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "cv.pdf", want: "cv.pdf"},
		{name: "spaces", input: "my cv.pdf", want: "my_cv.pdf"},
		{name: "slashes", input: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{name: "traversal", input: "../../etc/passwd", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitize %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("sanitize %q = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
