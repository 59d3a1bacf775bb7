package reports

import (
	"context"
	"sync"
	"time"

	"market-twin/src/logger"
	"market-twin/src/models"
	"market-twin/src/utils"
)

// -----------------------------------------------------------------------------
// Scheduler
// -----------------------------------------------------------------------------

// Scheduler runs named daily jobs at a fixed wall-clock time in a configured
// timezone. Scheduling the same id again replaces the prior schedule.
type Scheduler struct {
	Logger *logger.Logger

	mu   sync.Mutex
	jobs map[string]chan struct{}
}

// -----------------------------------------------------------------------------

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		Logger: log,
		jobs:   make(map[string]chan struct{}),
	}
}

// -----------------------------------------------------------------------------

// ScheduleDaily registers a job that fires every day at hour:minute in tz.
// Returns false (and leaves the system without the job) when the timezone
// cannot be loaded; scheduling absence must never fail startup.
func (s *Scheduler) ScheduleDaily(id string, hour, minute int, tz string, job func(time.Time)) bool {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.Logger.Warning("Scheduler unavailable for job '%s': bad timezone '%s': %v", id, tz, err)
		return false
	}

	s.mu.Lock()
	if stop, ok := s.jobs[id]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	s.jobs[id] = stop
	s.mu.Unlock()

	go s.runLoop(id, hour, minute, loc, job, stop)

	s.Logger.Info("Scheduled job '%s' daily at %02d:%02d %s", id, hour, minute, tz)
	return true
}

// -----------------------------------------------------------------------------

func (s *Scheduler) runLoop(id string, hour, minute int, loc *time.Location, job func(time.Time), stop chan struct{}) {
	for {
		now := time.Now().In(loc)
		next := NextDailyRun(now, hour, minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case fired := <-timer.C:
			job(fired)
		case <-stop:
			timer.Stop()
			s.Logger.Debug("Job '%s' schedule replaced or stopped", id)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// NextDailyRun returns the next hour:minute occurrence strictly after now,
// in now's location.
func NextDailyRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// -----------------------------------------------------------------------------

// Stop cancels all scheduled jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, stop := range s.jobs {
		close(stop)
		delete(s.jobs, id)
	}
}

// -----------------------------------------------------------------------------
// Daily Report Job
// -----------------------------------------------------------------------------

// NewDailyReportJob returns the job body for the scheduled full JSON report:
// build, export, archive with a minute-resolution prefix. An optional
// trading-calendar gate skips non-trading days.
func NewDailyReportJob(pipeline *Pipeline, archive *Archive, sched models.MScheduleConfig, log *logger.Logger) func(time.Time) {
	var cal *utils.TradingCalendar
	if sched.TradingDaysOnly {
		symbol := sched.CalendarSymbol
		if symbol == "" {
			symbol = "SPY"
		}
		cal = utils.GetCalendar(symbol)
	}

	return func(now time.Time) {
		if cal != nil && !cal.IsTradingDay(now) {
			log.Info("Daily report skipped: %s is not a trading day", now.Format("2006-01-02"))
			return
		}

		req := models.MReportRequest{
			ReportType:   models.ReportTypeFull,
			ExportFormat: models.ExportFormatJSON,
		}

		artifact, err := pipeline.Generate(context.Background(), req)
		if err != nil {
			log.Error("Daily report generation failed: %v", err)
			return
		}

		name, err := archive.Write(now, ScheduledPrefixLayout, artifact.Filename, artifact.Data)
		if err != nil {
			log.Error("Daily report archive failed: %v", err)
			return
		}
		log.Info("Daily report archived as %s (%d bytes)", name, len(artifact.Data))
	}
}
