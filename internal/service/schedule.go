package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"astrader_backend/internal/domain"
	"astrader_backend/internal/ledger"
	"astrader_backend/internal/logger"
	"astrader_backend/internal/repository"
)

// excludedWeekdaysPerMonth is how many weekday dates each month are randomly
// declared non-accrual days, on top of weekends.
const excludedWeekdaysPerMonth = 2

// ExclusionService decides whether a calendar day accrues ROI. Weekends never
// accrue; additionally two weekday dates per month are picked pseudo-randomly
// and persisted, so every scheduler instance sees the same exclusion set for
// the whole month.
type ExclusionService struct {
	store      ledger.Store
	exclusions *repository.ExclusionRepository
}

func NewExclusionService(store ledger.Store) *ExclusionService {
	return &ExclusionService{
		store:      store,
		exclusions: repository.NewExclusionRepository(store),
	}
}

// IsExcluded reports whether day is a non-accrual day.
func (s *ExclusionService) IsExcluded(ctx context.Context, day time.Time) (bool, error) {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true, nil
	}
	days, err := s.monthExclusions(ctx, day)
	if err != nil {
		return false, err
	}
	for _, d := range days {
		if d == day.Day() {
			return true, nil
		}
	}
	return false, nil
}

// monthExclusions returns the month's excluded weekday dates, computing and
// persisting them on first use. The read-or-create runs in a transaction so
// two concurrent schedulers cannot commit different sets.
func (s *ExclusionService) monthExclusions(ctx context.Context, day time.Time) ([]int, error) {
	month := day.Format("2006-01")

	var days []int
	err := s.store.RunTransaction(ctx, func(tx ledger.Tx) error {
		existing, err := s.exclusions.GetWithTx(ctx, tx, month)
		if err == nil {
			days = existing.Days
			return nil
		}
		if !errors.Is(err, ledger.ErrNotFound) {
			return err
		}
		days = pickExcludedWeekdays(day.Year(), day.Month())
		return s.exclusions.SaveWithTx(ctx, tx, &domain.MonthExclusions{Month: month, Days: days})
	})
	if err != nil {
		return nil, err
	}
	return days, nil
}

// pickExcludedWeekdays selects the month's randomized non-accrual dates from
// its weekday dates.
func pickExcludedWeekdays(year int, month time.Month) []int {
	var weekdays []int
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			weekdays = append(weekdays, d.Day())
		}
	}
	rand.Shuffle(len(weekdays), func(i, j int) {
		weekdays[i], weekdays[j] = weekdays[j], weekdays[i]
	})
	n := excludedWeekdaysPerMonth
	if n > len(weekdays) {
		n = len(weekdays)
	}
	return weekdays[:n]
}

// Scheduler fires the accrual engine once per day at a fixed UTC hour. Stop
// it by cancelling the context passed to Run.
type Scheduler struct {
	engine *AccrualEngine
	hour   int
}

func NewScheduler(engine *AccrualEngine, hour int) *Scheduler {
	return &Scheduler{engine: engine, hour: hour}
}

// Run blocks until ctx is cancelled, firing the daily job at each boundary.
func (s *Scheduler) Run(ctx context.Context) {
	log := logger.With("job", "roi_scheduler")
	for {
		now := time.Now().UTC()
		next := s.nextFiring(now)
		log.Info("next accrual run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := s.engine.TickAllActivePurchases(ctx, time.Now().UTC()); err != nil {
			log.Error("accrual run failed", "error", err)
		}
	}
}

func (s *Scheduler) nextFiring(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
