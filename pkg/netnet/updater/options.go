// Package updater synchronizes a net-net workbook with fresh raw data
// exports: it validates, backs up, merges or replaces the raw data sheets,
// adds new period columns and keeps the dependent calculation sheets in step.
package updater

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidOptions indicates an Options value failed validation.
var ErrInvalidOptions = errors.New("invalid update options")

// ErrValidationFailed indicates an export does not fit the workbook structure
// and the run was not forced.
var ErrValidationFailed = errors.New("validation failed")

// Mode selects the update strategy.
type Mode string

const (
	// ModeMerge patches the cells of periods present on both sides.
	ModeMerge Mode = "merge"
	// ModeReplace clears the raw data and rewrites it from the exports,
	// matching rows by label.
	ModeReplace Mode = "replace"
)

// Options configures one update run.
type Options struct {
	// Workbook is the path of the workbook to update.
	Workbook string `validate:"required"`
	// IncomeExport and BalanceExport are the export files; at least one is required.
	IncomeExport  string `validate:"required_without=BalanceExport"`
	BalanceExport string `validate:"required_without=IncomeExport"`
	// Company renames the raw data sheets when its sheet prefix differs from
	// the current one. Empty keeps the current names.
	Company string
	// Mode defaults to ModeMerge.
	Mode Mode `validate:"omitempty,oneof=merge replace"`
	// ExtendPeriods adds a column for every export period the workbook lacks.
	ExtendPeriods bool
	DryRun        bool
	// Force continues past validation errors.
	Force bool
	// SyncDependents updates the calculation sheets after a data change.
	// If nil, defaults to true.
	SyncDependents *bool
}

var optionsValidator = validator.New()

// Validate checks the options and fills in defaults.
func (o *Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.Mode == "" {
		o.Mode = ModeMerge
	}
	if o.ExtendPeriods && o.Mode != ModeMerge {
		return fmt.Errorf("%w: period extension needs merge mode", ErrInvalidOptions)
	}
	return nil
}

// ShouldSyncDependents returns whether to update the calculation sheets.
func (o Options) ShouldSyncDependents() bool {
	if o.SyncDependents != nil {
		return *o.SyncDependents
	}
	return true
}
