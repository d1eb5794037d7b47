package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/snookertab/internal/domain"
)

type fakeRepo struct {
	ledger  domain.Ledger
	saves   int
	saveErr error
}

func (f *fakeRepo) Load(_ context.Context) (domain.Ledger, error) {
	return cloneLedger(f.ledger), nil
}

func (f *fakeRepo) Save(_ context.Context, ledger domain.Ledger) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.ledger = cloneLedger(ledger)
	return nil
}

func cloneLedger(in domain.Ledger) domain.Ledger {
	out := in
	out.Matches = append([]domain.Match(nil), in.Matches...)
	out.Active = make(map[domain.TableID]domain.ActiveMatch, len(in.Active))
	for table, active := range in.Active {
		out.Active[table] = active
	}
	return out
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestEngine(t *testing.T) (*Engine, *fakeRepo, *fakeClock) {
	t.Helper()

	repo := &fakeRepo{}
	clock := &fakeClock{now: time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)}
	engine := NewEngine(repo, domain.DefaultCatalog(), clock, zerolog.Nop())
	return engine, repo, clock
}

func TestStartThenEndBillsCeilingMinutes(t *testing.T) {
	engine, repo, clock := newTestEngine(t)
	ctx := context.Background()

	active, err := engine.Start(ctx, StartCommand{Table: "2", Rate: 4})
	require.NoError(t, err)
	assert.Equal(t, clock.now, active.StartTime)
	assert.Equal(t, 4.0, active.Rate)

	clock.advance(150 * time.Second)

	match, err := engine.End(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), match.Serial)
	assert.Equal(t, 3, match.Duration, "2.5 minutes bills as 3")
	assert.InDelta(t, 12.0, match.Amount, 0.005)

	assert.Empty(t, repo.ledger.Active)
	assert.Len(t, repo.ledger.Matches, 1)
	assert.Equal(t, uint64(2), repo.ledger.SerialCounter)
}

func TestStartDefaultsToCurrencyDefaultRate(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	active, err := engine.Start(context.Background(), StartCommand{Table: "1"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, active.Rate)
}

func TestStartRejectsOccupiedTable(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, StartCommand{Table: "3", Rate: 4})
	require.NoError(t, err)
	before := cloneLedger(repo.ledger)

	_, err = engine.Start(ctx, StartCommand{Table: "3", Rate: 5})
	assert.ErrorIs(t, err, domain.ErrTableOccupied)
	assert.Equal(t, before, repo.ledger, "rejected start must not change state")
}

func TestStartRejectsUnknownTableAndRate(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, StartCommand{Table: "9", Rate: 4})
	assert.ErrorIs(t, err, domain.ErrUnknownTable)

	_, err = engine.Start(ctx, StartCommand{Table: "1", Rate: 99})
	assert.ErrorIs(t, err, domain.ErrRateNotOffered)

	assert.Zero(t, repo.saves)
}

func TestEndTooShortDiscardsWithoutBilling(t *testing.T) {
	engine, repo, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, StartCommand{Table: "4", Rate: 4})
	require.NoError(t, err)

	clock.advance(0)

	_, err = engine.End(ctx, "4")
	assert.ErrorIs(t, err, domain.ErrTooShortToBill)
	assert.Empty(t, repo.ledger.Active, "table returns to idle")
	assert.Empty(t, repo.ledger.Matches, "no match is recorded")
	assert.Equal(t, uint64(1), repo.ledger.SerialCounter, "serial is not consumed")
}

func TestEndIdleTableRejected(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.End(context.Background(), "5")
	assert.ErrorIs(t, err, domain.ErrTableIdle)
}

func TestRecordManualMatch(t *testing.T) {
	engine, repo, _ := newTestEngine(t)

	match, err := engine.Record(context.Background(), RecordCommand{
		Table: "2",
		Start: "18:05",
		End:   "19:40",
		Rate:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, 95, match.Duration)
	assert.InDelta(t, 380.0, match.Amount, 0.005)
	assert.Equal(t, "6:05 PM", domain.FormatClock(match.StartTime))
	assert.Len(t, repo.ledger.Matches, 1)
}

func TestRecordRollsEndPastMidnight(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	match, err := engine.Record(context.Background(), RecordCommand{
		Table: "2",
		Start: "23:30",
		End:   "00:15",
		Rate:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, match.Duration)
	assert.True(t, match.EndTime.After(match.StartTime))
}

func TestRecordEqualTimesRollsFullDay(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	match, err := engine.Record(context.Background(), RecordCommand{
		Table: "1",
		Start: "10:00",
		End:   "10:00",
		Rate:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, 24*60, match.Duration)
}

func TestEditRecomputesDerivedFields(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	match, err := engine.Record(ctx, RecordCommand{Table: "2", Start: "18:00", End: "19:00", Rate: 4})
	require.NoError(t, err)

	newEnd := match.StartTime.Add(30 * time.Minute)
	newRate := 5.0
	edited, err := engine.Edit(ctx, EditCommand{
		Serial: match.Serial,
		End:    &newEnd,
		Rate:   &newRate,
	})
	require.NoError(t, err)
	assert.Equal(t, match.Serial, edited.Serial, "serial survives the edit")
	assert.Equal(t, 30, edited.Duration)
	assert.InDelta(t, 150.0, edited.Amount, 0.005)
	assert.Len(t, repo.ledger.Matches, 1)
}

func TestEditRejectsEndBeforeStart(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	match, err := engine.Record(ctx, RecordCommand{Table: "2", Start: "18:00", End: "19:00", Rate: 4})
	require.NoError(t, err)
	before := cloneLedger(repo.ledger)

	badEnd := match.StartTime.Add(-time.Minute)
	_, err = engine.Edit(ctx, EditCommand{Serial: match.Serial, End: &badEnd})
	assert.ErrorIs(t, err, domain.ErrEndBeforeStart)
	assert.Equal(t, before, repo.ledger, "rejected edit must not mutate history")
}

func TestEditEqualTimesClampsToZero(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	match, err := engine.Record(ctx, RecordCommand{Table: "2", Start: "18:00", End: "19:00", Rate: 4})
	require.NoError(t, err)

	sameAsStart := match.StartTime
	edited, err := engine.Edit(ctx, EditCommand{Serial: match.Serial, End: &sameAsStart})
	require.NoError(t, err)
	assert.Equal(t, 0, edited.Duration)
	assert.Equal(t, 0.0, edited.Amount)
}

func TestEditUnknownSerial(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Edit(context.Background(), EditCommand{Serial: 999})
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestDeleteAbsentSerialIsNoOp(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Record(ctx, RecordCommand{Table: "2", Start: "18:00", End: "19:00", Rate: 4})
	require.NoError(t, err)
	before := cloneLedger(repo.ledger)

	removed, err := engine.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, repo.ledger)
}

func TestDeletedSerialIsNeverReused(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.Record(ctx, RecordCommand{Table: "1", Start: "10:00", End: "11:00", Rate: 3})
	require.NoError(t, err)

	removed, err := engine.Delete(ctx, first.Serial)
	require.NoError(t, err)
	assert.True(t, removed)

	second, err := engine.Record(ctx, RecordCommand{Table: "1", Start: "11:00", End: "12:00", Rate: 3})
	require.NoError(t, err)
	assert.Greater(t, second.Serial, first.Serial)
	assert.Len(t, repo.ledger.Matches, 1)
}

func TestHistoryStaysNewestFirst(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	for _, times := range [][2]string{{"10:00", "11:00"}, {"11:00", "12:00"}, {"12:00", "13:00"}} {
		_, err := engine.Record(ctx, RecordCommand{Table: "1", Start: times[0], End: times[1], Rate: 3})
		require.NoError(t, err)
	}

	view, err := engine.History(ctx)
	require.NoError(t, err)
	require.Len(t, view.Matches, 3)
	assert.Equal(t, uint64(3), view.Matches[0].Serial)
	assert.Equal(t, uint64(1), view.Matches[2].Serial)
}

func TestSetCurrency(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	change, err := engine.SetCurrency(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.Code("INR"), change.Previous)
	assert.Equal(t, domain.Code("USD"), change.Current)
	assert.True(t, change.RateReset, "INR's default rate is not on the USD list")
	assert.Equal(t, domain.Code("USD"), repo.ledger.Currency)

	_, err = engine.SetCurrency(ctx, "JPY")
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestTableStatusesReportsAllTables(t *testing.T) {
	engine, _, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, StartCommand{Table: "2", Rate: 4})
	require.NoError(t, err)
	clock.advance(150 * time.Second)

	statuses, err := engine.TableStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, len(domain.Tables()))

	var occupied *TableStatus
	for i := range statuses {
		if statuses[i].Table == "2" {
			occupied = &statuses[i]
		} else {
			assert.False(t, statuses[i].Occupied)
		}
	}
	require.NotNil(t, occupied)
	assert.True(t, occupied.Occupied)
	assert.Equal(t, 150*time.Second, occupied.Elapsed)
	assert.InDelta(t, 12.0, occupied.RunningAmount, 0.005, "running amount bills the started minute")
}

func TestPersistenceFailureDoesNotRollBackTransition(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	repo.saveErr = errors.New("disk full")

	active, err := engine.Start(context.Background(), StartCommand{Table: "2", Rate: 4})
	require.NoError(t, err, "a failed save never fails the transition")
	assert.Equal(t, domain.TableID("2"), active.Table)
	assert.Equal(t, 1, repo.saves)
}

func TestAmountInvariantHoldsAcrossOperations(t *testing.T) {
	engine, repo, _ := newTestEngine(t)
	ctx := context.Background()

	m, err := engine.Record(ctx, RecordCommand{Table: "2", Start: "18:00", End: "19:35", Rate: 4.5})
	require.NoError(t, err)

	newRate := 3.5
	_, err = engine.Edit(ctx, EditCommand{Serial: m.Serial, Rate: &newRate})
	require.NoError(t, err)

	for _, match := range repo.ledger.Matches {
		require.NoError(t, match.Validate())
	}
}
