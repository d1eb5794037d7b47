package application

import (
	"context"
	"fmt"

	"github.com/bnema/snookertab/internal/domain"
	"github.com/bnema/snookertab/internal/ports"
	"github.com/rs/zerolog"
)

// Engine is the match lifecycle state machine. It exclusively owns mutation
// of the ledger: every operation loads a snapshot, applies one transition
// in memory, then hands the result back to the repository. A failed save is
// logged and the in-memory transition still counts for the command that
// triggered it.
type Engine struct {
	repo    ports.LedgerRepository
	catalog domain.Catalog
	clock   ports.Clock
	log     zerolog.Logger
}

func NewEngine(repo ports.LedgerRepository, catalog domain.Catalog, clock ports.Clock, log zerolog.Logger) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}

	return &Engine{
		repo:    repo,
		catalog: catalog,
		clock:   clock,
		log:     log,
	}
}

func (e *Engine) Catalog() domain.Catalog {
	return e.catalog
}

// Start opens an active match on an idle table. Starting an occupied or
// unrecognized table is rejected with no state change.
func (e *Engine) Start(ctx context.Context, cmd StartCommand) (domain.ActiveMatch, error) {
	if !domain.ValidTable(cmd.Table) {
		return domain.ActiveMatch{}, fmt.Errorf("%w: %q", domain.ErrUnknownTable, cmd.Table)
	}

	ledger, err := e.load(ctx)
	if err != nil {
		return domain.ActiveMatch{}, err
	}

	if _, occupied := ledger.Active[cmd.Table]; occupied {
		return domain.ActiveMatch{}, fmt.Errorf("table %s: %w", cmd.Table, domain.ErrTableOccupied)
	}

	rate, err := e.catalog.ResolveRate(ledger.Currency, cmd.Rate)
	if err != nil {
		return domain.ActiveMatch{}, err
	}

	active := domain.ActiveMatch{
		Table:     cmd.Table,
		StartTime: e.clock.Now(),
		Rate:      rate,
	}
	ledger.Active[cmd.Table] = active

	e.persist(ctx, ledger)
	return active, nil
}

// End closes the active match on a table. A session shorter than one billed
// minute is discarded: the table goes idle, no match is recorded, and
// domain.ErrTooShortToBill is returned as the user-visible notice.
func (e *Engine) End(ctx context.Context, table domain.TableID) (domain.Match, error) {
	if !domain.ValidTable(table) {
		return domain.Match{}, fmt.Errorf("%w: %q", domain.ErrUnknownTable, table)
	}

	ledger, err := e.load(ctx)
	if err != nil {
		return domain.Match{}, err
	}

	active, occupied := ledger.Active[table]
	if !occupied {
		return domain.Match{}, fmt.Errorf("table %s: %w", table, domain.ErrTableIdle)
	}

	now := e.clock.Now()
	delete(ledger.Active, table)

	minutes := domain.BillableMinutes(active.StartTime, now)
	if minutes < 1 {
		e.persist(ctx, ledger)
		return domain.Match{}, fmt.Errorf("table %s: %w", table, domain.ErrTooShortToBill)
	}

	match := domain.Match{
		Serial:    ledger.NextSerial(),
		Table:     table,
		StartTime: active.StartTime,
		EndTime:   now,
		Duration:  minutes,
		Rate:      active.Rate,
		Amount:    domain.ComputeAmount(minutes, active.Rate),
	}
	ledger.Matches = append(ledger.Matches, match)
	ledger.SortHistory()

	e.persist(ctx, ledger)
	return match, nil
}

// Record enters a completed session from its wall-clock times, the manual
// path for matches that were tracked on paper. An end at or before the
// start is taken to mean the session crossed midnight.
func (e *Engine) Record(ctx context.Context, cmd RecordCommand) (domain.Match, error) {
	if !domain.ValidTable(cmd.Table) {
		return domain.Match{}, fmt.Errorf("%w: %q", domain.ErrUnknownTable, cmd.Table)
	}

	today := e.clock.Now()
	start, err := domain.ParseWallClock(cmd.Start, today)
	if err != nil {
		return domain.Match{}, err
	}
	end, err := domain.ParseWallClock(cmd.End, today)
	if err != nil {
		return domain.Match{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	minutes := domain.BillableMinutes(start, end)
	if minutes < 1 {
		return domain.Match{}, domain.ErrTooShortToBill
	}

	ledger, err := e.load(ctx)
	if err != nil {
		return domain.Match{}, err
	}

	rate, err := e.catalog.ResolveRate(ledger.Currency, cmd.Rate)
	if err != nil {
		return domain.Match{}, err
	}

	match := domain.Match{
		Serial:    ledger.NextSerial(),
		Table:     cmd.Table,
		StartTime: start,
		EndTime:   end,
		Duration:  minutes,
		Rate:      rate,
		Amount:    domain.ComputeAmount(minutes, rate),
	}
	ledger.Matches = append(ledger.Matches, match)
	ledger.SortHistory()

	e.persist(ctx, ledger)
	return match, nil
}

// Edit replaces fields of a completed match, keeping its serial. Duration
// and amount are recomputed from the new source fields; an end before the
// start blocks the save.
func (e *Engine) Edit(ctx context.Context, cmd EditCommand) (domain.Match, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return domain.Match{}, err
	}

	idx := ledger.FindMatch(cmd.Serial)
	if idx < 0 {
		return domain.Match{}, fmt.Errorf("serial %d: %w", cmd.Serial, domain.ErrMatchNotFound)
	}

	match := ledger.Matches[idx]
	if cmd.Table != nil {
		match.Table = *cmd.Table
	}
	if cmd.Start != nil {
		match.StartTime = *cmd.Start
	}
	if cmd.End != nil {
		match.EndTime = *cmd.End
	}
	if cmd.Rate != nil {
		match.Rate = *cmd.Rate
	}

	if !domain.ValidTable(match.Table) {
		return domain.Match{}, fmt.Errorf("%w: %q", domain.ErrUnknownTable, match.Table)
	}
	if match.EndTime.Before(match.StartTime) {
		return domain.Match{}, domain.ErrEndBeforeStart
	}
	if match.Rate <= 0 {
		return domain.Match{}, domain.ErrInvalidRate
	}

	match.Duration = domain.BillableMinutes(match.StartTime, match.EndTime)
	match.Amount = domain.ComputeAmount(match.Duration, match.Rate)

	ledger.Matches[idx] = match
	ledger.SortHistory()

	e.persist(ctx, ledger)
	return match, nil
}

// Delete removes the match with the given serial. Deleting an absent serial
// is a no-op; the returned bool reports whether anything was removed.
func (e *Engine) Delete(ctx context.Context, serial uint64) (bool, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	idx := ledger.FindMatch(serial)
	if idx < 0 {
		return false, nil
	}

	ledger.Matches = append(ledger.Matches[:idx], ledger.Matches[idx+1:]...)

	e.persist(ctx, ledger)
	return true, nil
}

// SetCurrency switches the active currency. Running matches keep the rate
// they started with; only the rate list offered for new sessions changes.
func (e *Engine) SetCurrency(ctx context.Context, code domain.Code) (CurrencyChange, error) {
	info, err := e.catalog.Lookup(code)
	if err != nil {
		return CurrencyChange{}, err
	}

	ledger, err := e.load(ctx)
	if err != nil {
		return CurrencyChange{}, err
	}

	previous := ledger.Currency
	ledger.Currency = code

	rateReset := true
	if prevInfo, prevErr := e.catalog.Lookup(previous); prevErr == nil {
		rateReset = !info.HasRate(prevInfo.DefaultRate)
	}

	e.persist(ctx, ledger)
	return CurrencyChange{
		Previous:  previous,
		Current:   code,
		Info:      info,
		RateReset: rateReset,
	}, nil
}

// TableStatuses reports every table in catalog order, occupied or not.
// Reads never mutate the ledger; elapsed time and the running amount are
// recomputed from the stored start instant.
func (e *Engine) TableStatuses(ctx context.Context) ([]TableStatus, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	statuses := make([]TableStatus, 0, len(domain.Tables()))
	for _, table := range domain.Tables() {
		status := TableStatus{Table: table}
		if active, occupied := ledger.Active[table]; occupied {
			minutes := domain.BillableMinutes(active.StartTime, now)
			status.Occupied = true
			status.StartedAt = active.StartTime
			status.Elapsed = now.Sub(active.StartTime)
			status.Rate = active.Rate
			status.RunningAmount = domain.ComputeAmount(minutes, active.Rate)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (e *Engine) History(ctx context.Context) (HistoryView, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return HistoryView{}, err
	}

	symbol := ""
	if info, infoErr := e.catalog.Lookup(ledger.Currency); infoErr == nil {
		symbol = info.Symbol
	}

	return HistoryView{
		Matches:  ledger.Matches,
		Currency: ledger.Currency,
		Symbol:   symbol,
	}, nil
}

func (e *Engine) GetMatch(ctx context.Context, serial uint64) (domain.Match, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return domain.Match{}, err
	}

	idx := ledger.FindMatch(serial)
	if idx < 0 {
		return domain.Match{}, fmt.Errorf("serial %d: %w", serial, domain.ErrMatchNotFound)
	}

	return ledger.Matches[idx], nil
}

func (e *Engine) load(ctx context.Context) (domain.Ledger, error) {
	ledger, err := e.repo.Load(ctx)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("load ledger: %w", err)
	}
	ledger.ApplyDefaults()
	return ledger, nil
}

func (e *Engine) persist(ctx context.Context, ledger domain.Ledger) {
	if err := e.repo.Save(ctx, ledger); err != nil {
		e.log.Warn().Err(err).Msg("persist ledger snapshot failed; in-memory transition kept")
	}
}
