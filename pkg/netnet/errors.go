package netnet

import (
	"fmt"

	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/updater"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// ErrFileNotFound indicates the workbook or export file does not exist.
var ErrFileNotFound = workbook.ErrFileNotFound

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = workbook.ErrInvalidFormat

// ErrSheetNotFound indicates a named sheet is missing.
var ErrSheetNotFound = workbook.ErrSheetNotFound

// ErrDataSheetsNotFound indicates the workbook lacks its "_IS" or "_bs" sheet.
var ErrDataSheetsNotFound = parser.ErrDataSheetsNotFound

// ErrValidationFailed indicates an update stopped on validation errors.
var ErrValidationFailed = updater.ErrValidationFailed

// ErrInvalidOptions indicates invalid update options.
var ErrInvalidOptions = updater.ErrInvalidOptions

// OperationError represents an error of one operation on one file.
type OperationError struct {
	Path string
	Op   string // "map", "load", "save", "validate", "diff", "update", "eval"
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, path string, err error) *OperationError {
	return &OperationError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}
