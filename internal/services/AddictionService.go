package services

import (
	"errors"
	"fmt"
	"sobriety/internal/models"
	"sobriety/internal/providers"
	"sobriety/internal/storage/interfaces"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("addiction not found")
	ErrDuplicateName = errors.New("addiction already exists")
)

// NeverStopped is the timeStopped value of a record that was never stopped.
const NeverStopped int64 = -1

type AddictionServiceInterface interface {
	List() []*models.Addiction
	Get(name string) (*models.Addiction, error)
	Create(name string, lastRelapse time.Time, priority models.Priority) (*models.Addiction, error)
	Delete(name string) error
	Stop(name string) (*models.Addiction, error)
	Relapse(name string) (*models.Addiction, error)
	SetPriority(name string, priority models.Priority) (*models.Addiction, error)
	SetTimeSaving(name string, t models.TimeOfDay) (*models.Addiction, error)
	PutNote(name string, date models.Date, text string) (*models.Addiction, error)
	DeleteNote(name string, date models.Date) (*models.Addiction, error)
	PutSaving(name, saving string, value models.Saving) (*models.Addiction, error)
	DeleteSaving(name, saving string) (*models.Addiction, error)
	AddMilestone(name string, m models.Milestone) (*models.Addiction, error)
	RemoveMilestone(name string, m models.Milestone) (*models.Addiction, error)
	Import(records []*models.Addiction) (int, error)
	Restore() error
}

// AddictionService owns the collection of records. Every operation holds
// the same lock, and every mutation is written to the store before it
// returns. Records handed out are clones.
type AddictionService struct {
	mu      sync.Mutex
	records []*models.Addiction
	store   interfaces.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewAddictionService(store interfaces.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *AddictionService {
	return &AddictionService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// SetClock replaces the clock given to records created from now on.
func (s *AddictionService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.bindClock(s.records)
}

// bindClock points records built outside the service at the service clock.
func (s *AddictionService) bindClock(records []*models.Addiction) {
	clock := models.WithClock(s.now)
	for _, a := range records {
		clock(a)
	}
}

func (s *AddictionService) List() []*models.Addiction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Addiction, 0, len(s.records))
	for _, a := range s.records {
		out = append(out, a.Clone())
	}
	return out
}

func (s *AddictionService) Get(name string) (*models.Addiction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return s.records[i].Clone(), nil
}

func (s *AddictionService) Create(name string, lastRelapse time.Time, priority models.Priority) (*models.Addiction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	a, err := models.NewAddiction(name, lastRelapse, false, NeverStopped, priority, models.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	s.records = append(s.records, a)
	s.logger.Infof(providers.TypeApp, "Created addiction %q", name)
	return a.Clone(), s.persist()
}

func (s *AddictionService) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.logger.Infof(providers.TypeApp, "Deleted addiction %q", name)
	return s.persist()
}

func (s *AddictionService) Stop(name string) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		a.StopAbstaining()
		s.metrics.IncTransitions("stop")
		return nil
	})
}

func (s *AddictionService) Relapse(name string) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		a.Relapse()
		s.metrics.IncTransitions("relapse")
		return nil
	})
}

func (s *AddictionService) SetPriority(name string, priority models.Priority) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		return a.SetPriority(priority)
	})
}

func (s *AddictionService) SetTimeSaving(name string, t models.TimeOfDay) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		a.SetTimeSaving(t)
		return nil
	})
}

func (s *AddictionService) PutNote(name string, date models.Date, text string) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		a.PutNote(date, text)
		return nil
	})
}

func (s *AddictionService) DeleteNote(name string, date models.Date) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		if !a.DeleteNote(date) {
			return fmt.Errorf("%w: no note on %s", ErrNotFound, date)
		}
		return nil
	})
}

func (s *AddictionService) PutSaving(name, saving string, value models.Saving) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		return a.PutSaving(saving, value)
	})
}

func (s *AddictionService) DeleteSaving(name, saving string) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		if !a.DeleteSaving(saving) {
			return fmt.Errorf("%w: no saving %q", ErrNotFound, saving)
		}
		return nil
	})
}

func (s *AddictionService) AddMilestone(name string, m models.Milestone) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		if !a.AddMilestone(m) {
			return fmt.Errorf("%w: milestone %s", ErrDuplicateName, m)
		}
		return nil
	})
}

func (s *AddictionService) RemoveMilestone(name string, m models.Milestone) (*models.Addiction, error) {
	return s.mutate(name, func(a *models.Addiction) error {
		if !a.RemoveMilestone(m) {
			return fmt.Errorf("%w: milestone %s", ErrNotFound, m)
		}
		return nil
	})
}

// Import appends records whose names are not taken yet and returns how many
// were added. Records with a taken name are skipped with a warning.
func (s *AddictionService) Import(records []*models.Addiction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	s.bindClock(records)
	for _, a := range records {
		if s.indexOf(a.Name()) >= 0 {
			s.logger.Warnf(providers.TypeApp, "Skipping import of %q: name already exists", a.Name())
			continue
		}
		s.records = append(s.records, a)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	s.logger.Infof(providers.TypeApp, "Imported %d addictions", added)
	return added, s.persist()
}

// Restore replaces the in-memory collection with what the store holds.
func (s *AddictionService) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.store.Load()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Restore error: %s", err)
		return err
	}
	s.bindClock(records)
	s.records = records
	s.metrics.SetRecordsTotal(len(records))
	s.logger.Infof(providers.TypeStore, "Restored %d addictions", len(records))
	return nil
}

// mutate applies fn to the named record and persists. fn's error aborts
// before anything is written. A failed write leaves the mutation applied.
func (s *AddictionService) mutate(name string, fn func(a *models.Addiction) error) (*models.Addiction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	a := s.records[i]
	if err := fn(a); err != nil {
		return nil, err
	}
	return a.Clone(), s.persist()
}

func (s *AddictionService) persist() error {
	start := time.Now()
	err := s.store.Save(s.records)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.metrics.SetRecordsTotal(len(s.records))
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
		return fmt.Errorf("persist: %w", err)
	}
	s.logger.Debugf(providers.TypeStore, "Persisted %d addictions", len(s.records))
	return nil
}

func (s *AddictionService) indexOf(name string) int {
	for i, a := range s.records {
		if a.Name() == name {
			return i
		}
	}
	return -1
}
