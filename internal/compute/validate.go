package compute

import (
	"fmt"

	"github.com/jsonharmony/harmony/internal/errors"
)

// Validate checks that the dimensions describe a computable dot product.
// Operand shapes must be positive and the inner dimensions must agree:
// A's column count must equal B's row count.
func (d Dimensions) Validate() error {
	if d.A.Rows <= 0 || d.A.Cols <= 0 {
		return errors.NewValidationError("dimensions",
			fmt.Sprintf("matrix A shape %dx%d must be positive", d.A.Rows, d.A.Cols))
	}
	if d.B.Rows <= 0 || d.B.Cols <= 0 {
		return errors.NewValidationError("dimensions",
			fmt.Sprintf("matrix B shape %dx%d must be positive", d.B.Rows, d.B.Cols))
	}
	if d.A.Cols != d.B.Rows {
		return errors.NewValidationError("dimensions",
			fmt.Sprintf("matrix A columns (%d) must equal matrix B rows (%d)", d.A.Cols, d.B.Rows))
	}
	return nil
}

// String renders dimensions in the conventional AxB form, e.g.
// "100x100 · 100x50".
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d · %dx%d", d.A.Rows, d.A.Cols, d.B.Rows, d.B.Cols)
}
