package compute

import (
	"testing"

	"github.com/jsonharmony/harmony/internal/errors"
)

func TestParseDims(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MatrixDims
		wantErr bool
	}{
		{name: "basic", input: "100x50", want: MatrixDims{Rows: 100, Cols: 50}},
		{name: "whitespace tolerated", input: " 10 x 20 ", want: MatrixDims{Rows: 10, Cols: 20}},
		{name: "missing separator", input: "100", wantErr: true},
		{name: "non-numeric rows", input: "axb", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDims(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDims(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDims(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDims(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDimensions(t *testing.T) {
	dims, err := ParseDimensions("100x100,100x50")
	if err != nil {
		t.Fatalf("ParseDimensions error: %v", err)
	}
	if dims.A.Rows != 100 || dims.B.Cols != 50 {
		t.Errorf("unexpected dims: %+v", dims)
	}

	if _, err := ParseDimensions("100x100"); err == nil {
		t.Error("single shape should fail")
	}

	// Inner dimensions must agree
	_, err = ParseDimensions("100x100,99x50")
	if err == nil {
		t.Fatal("mismatched shapes should fail")
	}
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}
