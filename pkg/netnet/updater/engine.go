package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// ValidationReminder closes the error list of a run stopped by validation.
const ValidationReminder = "Validation failed. Use --force to override."

// Engine runs updates against workbooks laid out by one Layout.
type Engine struct {
	layout     parser.Layout
	logger     *slog.Logger
	now        func() time.Time
	backupDir  string
	dependents []Dependent
	ratios     []RatioRow
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBackupDir stores backups in dir instead of next to the workbook.
func WithBackupDir(dir string) Option {
	return func(e *Engine) { e.backupDir = dir }
}

// WithDependents replaces the calculation sheets kept in step with the raw data.
func WithDependents(deps ...Dependent) Option {
	return func(e *Engine) { e.dependents = deps }
}

// WithRatioRows replaces the latest-period ratio rows.
func WithRatioRows(rows ...RatioRow) Option {
	return func(e *Engine) { e.ratios = rows }
}

// New returns an Engine. A nil logger discards log output.
func New(layout parser.Layout, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		layout:     layout,
		logger:     logger,
		now:        time.Now,
		dependents: DefaultDependents(),
		ratios:     DefaultRatioRows(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies the exports of opts to the workbook. The returned result is
// never nil; on failure it carries the errors and err is non-nil.
func (e *Engine) Run(ctx context.Context, opts Options) (*models.UpdateResult, error) {
	result := models.NewUpdateResult(uuid.NewString())
	result.DryRun = opts.DryRun
	if err := opts.Validate(); err != nil {
		result.Fail(err.Error())
		return result, err
	}

	log := e.logger.With(
		slog.String("run_id", result.RunID),
		slog.String("workbook", opts.Workbook),
		slog.String("mode", string(opts.Mode)),
	)
	r := &run{
		Engine:       e,
		opts:         opts,
		log:          log,
		result:       result,
		names:        make(map[models.SheetType]string),
		exports:      make(map[models.SheetType]*workbook.Sheet),
		newPeriods:   make(map[models.SheetType][]models.NewPeriod),
		extended:     make(map[string]bool),
		materialized: make(map[string]bool),
	}
	defer r.close()

	states := []struct {
		name string
		fn   func() error
	}{
		{"opening", r.open},
		{"validating", r.validate},
		{"backing up", r.backup},
		{"renaming", r.rename},
		{"updating", r.update},
		{"extending periods", r.extend},
		{"syncing dependents", r.syncDependents},
		{"updating ratios", r.updateRatios},
		{"saving", r.save},
	}
	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return r.fail(st.name, err)
		}
		log.Debug("update state", slog.String("state", st.name))
		if err := st.fn(); err != nil {
			return r.fail(st.name, err)
		}
	}

	result.Success = true
	log.Info("update complete",
		slog.Int("cells_updated", result.CellsUpdated),
		slog.Int("new_columns_added", result.NewColumnsAdded),
		slog.Int("formulas_extended", result.FormulasExtended),
		slog.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}

// run is the state of one Engine.Run call.
type run struct {
	*Engine
	opts   Options
	log    *slog.Logger
	result *models.UpdateResult

	wb      *workbook.Workbook
	sources []*workbook.Workbook
	// names holds the current data sheet names; exports the export sheet per type.
	names      map[models.SheetType]string
	exports    map[models.SheetType]*workbook.Sheet
	newPeriods map[models.SheetType][]models.NewPeriod
	// extended records dates whose dependent columns were already added.
	extended     map[string]bool
	materialized map[string]bool
}

func (r *run) fail(state string, err error) (*models.UpdateResult, error) {
	if !errors.Is(err, ErrValidationFailed) {
		r.result.Fail(fmt.Sprintf("%s: %v", state, err))
	}
	r.log.Error("update failed", slog.String("state", state), slog.Any("error", err))
	return r.result, err
}

func (r *run) close() {
	for _, wb := range r.sources {
		_ = wb.Close()
	}
	if r.wb != nil {
		_ = r.wb.Close()
	}
}

// types returns the sheet types with an export, income first.
func (r *run) types() []models.SheetType {
	var out []models.SheetType
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		if r.exports[t] != nil {
			out = append(out, t)
		}
	}
	return out
}

func (r *run) open() error {
	wb, err := workbook.Open(r.opts.Workbook)
	if err != nil {
		return err
	}
	r.wb = wb
	r.names[models.IncomeStatement], r.names[models.BalanceSheet] = parser.LocateDataSheets(wb.SheetNames())

	paths := map[models.SheetType]string{
		models.IncomeStatement: r.opts.IncomeExport,
		models.BalanceSheet:    r.opts.BalanceExport,
	}
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		if paths[t] == "" {
			continue
		}
		if r.names[t] == "" {
			return fmt.Errorf("%w: no %s sheet for the %s export", parser.ErrDataSheetsNotFound, suffix(t), strings.ToUpper(string(t)))
		}
		src, err := workbook.Open(paths[t])
		if err != nil {
			return fmt.Errorf("open %s export: %w", strings.ToUpper(string(t)), err)
		}
		r.sources = append(r.sources, src)
		r.exports[t] = src.ActiveSheet()
	}
	return nil
}

func suffix(t models.SheetType) string {
	if t == models.BalanceSheet {
		return "*" + parser.BalanceSuffix
	}
	return "*" + parser.IncomeSuffix
}

// sheet returns the current data sheet for t.
func (r *run) sheet(t models.SheetType) (*workbook.Sheet, error) {
	return r.wb.Sheet(r.names[t])
}

func (r *run) backup() error {
	if r.opts.DryRun {
		return nil
	}
	path, err := workbook.Backup(r.opts.Workbook, r.backupDir, r.now())
	if err != nil {
		return err
	}
	r.result.BackupPath = path
	r.log.Info("backup created", slog.String("path", path))
	return nil
}

func (r *run) save() error {
	switch {
	case r.opts.DryRun:
		r.log.Info("dry run, workbook not saved")
		return nil
	case !r.result.Modified():
		r.log.Info("no changes, workbook not saved")
		return nil
	}
	if err := r.wb.Save(); err != nil {
		return fmt.Errorf("save %s: %w", r.opts.Workbook, err)
	}
	r.log.Info("workbook saved", slog.String("path", r.wb.Path()))
	return nil
}

// editable prepares a sheet for in-place formula edits once per run.
func (r *run) editable(sheet *workbook.Sheet) error {
	if r.materialized[sheet.Name()] {
		return nil
	}
	if _, err := sheet.MaterializeFormulas(); err != nil {
		return fmt.Errorf("prepare %s: %w", sheet.Name(), err)
	}
	r.materialized[sheet.Name()] = true
	return nil
}

// findSheet resolves a sheet name exactly, then ignoring case.
func (r *run) findSheet(name string) (*workbook.Sheet, bool) {
	if s, err := r.wb.Sheet(name); err == nil {
		return s, true
	}
	for _, n := range r.wb.SheetNames() {
		if strings.EqualFold(n, name) {
			s, err := r.wb.Sheet(n)
			return s, err == nil
		}
	}
	return nil, false
}
