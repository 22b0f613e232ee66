package services

import (
	"errors"
	"sobriety/internal/models"
	"sobriety/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	svc     *AddictionService
	store   *testutil.MockStore
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   &testutil.MockStore{},
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		now:     t0,
	}
	env.svc = NewAddictionService(env.store, env.logger, env.metrics)
	env.svc.SetClock(func() time.Time { return env.now })
	return env
}

func (e *testEnv) create(t *testing.T, name string) {
	t.Helper()
	_, err := e.svc.Create(name, e.now, models.PriorityMedium)
	require.NoError(t, err)
}

func TestAddictionService_Create(t *testing.T) {
	env := newTestEnv(t)

	a, err := env.svc.Create("Smoking", t0, models.PriorityHigh)
	require.NoError(t, err)

	assert.Equal(t, "Smoking", a.Name())
	assert.False(t, a.IsStopped())
	assert.Equal(t, NeverStopped, a.TimeStopped())
	assert.Equal(t, 1, env.store.SaveCalls)
	require.Len(t, env.store.Records, 1)
	assert.Equal(t, 1, env.metrics.Records)
}

func TestAddictionService_CreateDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	_, err := env.svc.Create("Smoking", t0, models.PriorityLow)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, env.store.SaveCalls)
}

func TestAddictionService_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create("", t0, models.PriorityLow)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, env.store.SaveCalls)
}

func TestAddictionService_GetNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Get("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddictionService_ListReturnsClones(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	list := env.svc.List()
	require.Len(t, list, 1)
	list[0].PutNote(models.Date{Year: 2024, Month: 5, Day: 1}, "changed outside")

	a, err := env.svc.Get("Smoking")
	require.NoError(t, err)
	assert.Equal(t, 0, a.DailyNotes().Len())
}

func TestAddictionService_StopAndRelapse(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	env.now = t0.Add(30 * time.Second)
	a, err := env.svc.Stop("Smoking")
	require.NoError(t, err)
	assert.True(t, a.IsStopped())
	assert.Equal(t, int64(10), a.AverageRelapseDuration())

	env.now = t0.Add(90 * time.Second)
	a, err = env.svc.Relapse("Smoking")
	require.NoError(t, err)
	assert.False(t, a.IsStopped())
	assert.Equal(t, int64(40), a.AverageRelapseDuration())

	assert.Equal(t, 3, env.store.SaveCalls)
	assert.Equal(t, 1, env.metrics.Transitions["stop"])
	assert.Equal(t, 1, env.metrics.Transitions["relapse"])
	assert.Equal(t, int64(40), env.store.Records[0].AverageRelapseDuration())
}

func TestAddictionService_MutationOnMissingRecord(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Stop("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.Relapse("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Delete("ghost"), ErrNotFound)
	assert.Equal(t, 0, env.store.SaveCalls)
}

func TestAddictionService_PersistFailureIsReportedNotRetried(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")
	env.store.SaveErr = errors.New("disk full")

	env.now = t0.Add(time.Minute)
	_, err := env.svc.Stop("Smoking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, env.store.SaveCalls)
	assert.Equal(t, 1, env.logger.Count("error"))

	a, err := env.svc.Get("Smoking")
	require.NoError(t, err)
	assert.True(t, a.IsStopped(), "in-memory mutation stays applied")
}

func TestAddictionService_Notes(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")
	day := models.Date{Year: 2024, Month: 5, Day: 2}

	a, err := env.svc.PutNote("Smoking", day, "first")
	require.NoError(t, err)
	text, _ := a.DailyNotes().Get(day)
	assert.Equal(t, "first", text)

	a, err = env.svc.PutNote("Smoking", day, "replaced")
	require.NoError(t, err)
	assert.Equal(t, 1, a.DailyNotes().Len())

	_, err = env.svc.DeleteNote("Smoking", day)
	require.NoError(t, err)
	_, err = env.svc.DeleteNote("Smoking", day)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddictionService_Savings(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	a, err := env.svc.PutSaving("Smoking", "money", models.Saving{Amount: 6, Unit: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Savings().Len())

	_, err = env.svc.PutSaving("Smoking", "", models.Saving{Amount: 6, Unit: "EUR"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.svc.DeleteSaving("Smoking", "money")
	require.NoError(t, err)
	_, err = env.svc.DeleteSaving("Smoking", "money")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddictionService_Milestones(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")
	m := models.Milestone{Count: 7, Unit: models.UnitDay}

	_, err := env.svc.AddMilestone("Smoking", m)
	require.NoError(t, err)
	_, err = env.svc.AddMilestone("Smoking", m)
	assert.ErrorIs(t, err, ErrDuplicateName)

	a, err := env.svc.RemoveMilestone("Smoking", m)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Milestones().Len())
	_, err = env.svc.RemoveMilestone("Smoking", m)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddictionService_PriorityAndTimeSaving(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	a, err := env.svc.SetPriority("Smoking", models.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, a.Priority())

	_, err = env.svc.SetPriority("Smoking", models.Priority(9))
	assert.ErrorIs(t, err, models.ErrValidation)

	a, err = env.svc.SetTimeSaving("Smoking", models.TimeOfDay{Hour: 2})
	require.NoError(t, err)
	assert.Equal(t, "02:00", a.TimeSaving().String())
}

func TestAddictionService_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")
	env.create(t, "Gaming")

	require.NoError(t, env.svc.Delete("Smoking"))

	list := env.svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Gaming", list[0].Name())
	assert.Len(t, env.store.Records, 1)
}

func TestAddictionService_ImportSkipsExistingNames(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")
	smoking, err := models.NewAddiction("Smoking", t0, false, 0, models.PriorityLow)
	require.NoError(t, err)
	sugar, err := models.NewAddiction("Sugar", t0, false, 0, models.PriorityLow)
	require.NoError(t, err)

	added, err := env.svc.Import([]*models.Addiction{smoking, sugar})
	require.NoError(t, err)

	assert.Equal(t, 1, added)
	assert.Len(t, env.svc.List(), 2)
	assert.Equal(t, 1, env.logger.Count("warn"))
}

func TestAddictionService_Restore(t *testing.T) {
	env := newTestEnv(t)
	a, err := models.NewAddiction("Coffee", t0, false, 0, models.PriorityHigh)
	require.NoError(t, err)
	env.store.Records = []*models.Addiction{a}

	require.NoError(t, env.svc.Restore())

	list := env.svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Coffee", list[0].Name())
	assert.Equal(t, 1, env.metrics.Records)
}

func TestAddictionService_RestoredRecordsUseServiceClock(t *testing.T) {
	env := newTestEnv(t)
	a, err := models.NewAddiction("Coffee", t0.Add(-30*time.Second), false, NeverStopped, models.PriorityHigh)
	require.NoError(t, err)
	env.store.Records = []*models.Addiction{a}
	require.NoError(t, env.svc.Restore())

	stopped, err := env.svc.Stop("Coffee")
	require.NoError(t, err)

	assert.Equal(t, t0.UnixMilli(), stopped.TimeStopped())
	assert.Equal(t, int64(30), stopped.AverageRelapseDuration())
}

func TestAddictionService_ImportedRecordsUseServiceClock(t *testing.T) {
	env := newTestEnv(t)
	a, err := models.NewAddiction("Sugar", t0.Add(-45*time.Second), false, NeverStopped, models.PriorityLow)
	require.NoError(t, err)
	_, err = env.svc.Import([]*models.Addiction{a})
	require.NoError(t, err)

	stopped, err := env.svc.Stop("Sugar")
	require.NoError(t, err)

	assert.Equal(t, t0.UnixMilli(), stopped.TimeStopped())
	assert.Equal(t, int64(45), stopped.AverageRelapseDuration())
}

func TestAddictionService_RestoreError(t *testing.T) {
	env := newTestEnv(t)
	env.store.LoadErr = models.ErrData

	assert.ErrorIs(t, env.svc.Restore(), models.ErrData)
	assert.Empty(t, env.svc.List())
}

func TestAddictionService_ConcurrentMutations(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Smoking")

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			_, _ = env.svc.PutNote("Smoking", models.Date{Year: 2024, Month: 6, Day: i + 1}, "note")
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	a, err := env.svc.Get("Smoking")
	require.NoError(t, err)
	assert.Equal(t, 20, a.DailyNotes().Len())
	assert.Equal(t, 21, env.store.SaveCalls)
}
