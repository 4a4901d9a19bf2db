package workbook

import "errors"

// ErrFileNotFound indicates the workbook or export file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the file could not be opened as an xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates a named sheet is missing from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSheetExists indicates a rename target is already taken.
var ErrSheetExists = errors.New("sheet already exists")
