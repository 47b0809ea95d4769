package discord

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// BotScheduleI defines the interface for scheduled tasks in the bot
type BotScheduleI interface {
	// GetName returns the name of the schedule
	GetName() string
	// GetCronExpression returns the cron expression for when this schedule should run.
	// Expressions have six fields, seconds first.
	GetCronExpression() string
	// Execute runs the scheduled task against the bot's session
	Execute(s Session) error
}

// GenericBotSchedule is a generic implementation of BotScheduleI
type GenericBotSchedule struct {
	// Name is the schedule's identifier
	Name string
	// CronExpression determines when the schedule will execute
	CronExpression string
	// Handler is the function to execute on schedule
	Handler func(Session) error
}

// GetName returns the schedule's name
func (bs *GenericBotSchedule) GetName() string {
	return bs.Name
}

// GetCronExpression returns the schedule's cron expression
func (bs *GenericBotSchedule) GetCronExpression() string {
	return bs.CronExpression
}

// Execute runs the scheduled task
func (bs *GenericBotSchedule) Execute(s Session) error {
	return bs.Handler(s)
}

// NewBotSchedule creates a new scheduled task with the given name, cron expression, and handler
func NewBotSchedule(name string, cronExpr string, handler func(Session) error) BotScheduleI {
	return &GenericBotSchedule{
		Name:           name,
		CronExpression: cronExpr,
		Handler:        handler,
	}
}

// NewPresenceSchedule re-applies the "Watching" activity. Discord drops presence when the
// gateway resumes on a new session, so the activity is refreshed periodically.
func NewPresenceSchedule(cronExpr, activity string) BotScheduleI {
	return NewBotSchedule("presence_refresh", cronExpr, func(s Session) error {
		return s.UpdateWatchStatus(0, activity)
	})
}

// scheduleManager handles scheduling and executing tasks
type scheduleManager struct {
	session   Session
	cron      *cron.Cron
	schedules []BotScheduleI
}

// newScheduleManager creates a new scheduleManager
func newScheduleManager(session Session, schedules []BotScheduleI) *scheduleManager {
	return &scheduleManager{
		session:   session,
		cron:      cron.New(cron.WithSeconds()),
		schedules: schedules,
	}
}

// start registers all scheduled tasks and starts the cron runner
func (sm *scheduleManager) start() error {
	for _, schedule := range sm.schedules {
		sched := schedule
		_, err := sm.cron.AddFunc(sched.GetCronExpression(), func() {
			sm.executeSchedule(sched)
		})
		if err != nil {
			return fmt.Errorf("failed to add schedule %s: %w", sched.GetName(), err)
		}
		slog.Info("registered schedule", "name", sched.GetName(), "cron", sched.GetCronExpression())
	}

	sm.cron.Start()
	slog.Info("schedule manager started", "schedules", len(sm.schedules))
	return nil
}

// executeSchedule runs a scheduled task. A panicking task is logged and the runner carries on.
func (sm *scheduleManager) executeSchedule(schedule BotScheduleI) {
	defer recoverHandler("schedule", "name", schedule.GetName())

	slog.Debug("executing schedule", "name", schedule.GetName(), "cron", schedule.GetCronExpression())

	if err := schedule.Execute(sm.session); err != nil {
		slog.Error("failed to execute schedule",
			"name", schedule.GetName(),
			"error", err)
	}
}

// stop cleanly shuts down the scheduler, waiting for running tasks
func (sm *scheduleManager) stop() {
	<-sm.cron.Stop().Done()
	slog.Info("schedule manager stopped")
}
