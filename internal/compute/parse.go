package compute

import (
	"strconv"
	"strings"

	"github.com/jsonharmony/harmony/internal/errors"
)

// ParseDims parses a single matrix shape in "RxC" form, e.g. "100x50".
func ParseDims(s string) (MatrixDims, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "x", 2)
	if len(parts) != 2 {
		return MatrixDims{}, errors.NewValidationError("dimensions", "expected RxC form, e.g. 100x50")
	}

	rows, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return MatrixDims{}, errors.NewValidationError("rows", "must be an integer")
	}
	cols, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return MatrixDims{}, errors.NewValidationError("cols", "must be an integer")
	}

	return MatrixDims{Rows: rows, Cols: cols}, nil
}

// ParseDimensions parses a task dimension pair in "RxC,RxC" form,
// e.g. "100x100,100x50", and validates the shapes are multipliable.
func ParseDimensions(s string) (Dimensions, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Dimensions{}, errors.NewValidationError("dimensions", "expected two shapes, e.g. 100x100,100x50")
	}

	a, err := ParseDims(parts[0])
	if err != nil {
		return Dimensions{}, err
	}
	b, err := ParseDims(parts[1])
	if err != nil {
		return Dimensions{}, err
	}

	dims := Dimensions{A: a, B: b}
	if err := dims.Validate(); err != nil {
		return Dimensions{}, err
	}
	return dims, nil
}
