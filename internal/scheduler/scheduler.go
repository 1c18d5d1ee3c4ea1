package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/model"
	"StrikeZones/internal/refresh"
)

// Refresher is the part of the orchestrator a tick drives.
type Refresher interface {
	RefreshCurrent(ctx context.Context) (refresh.Result, bool)
	Panel(ctx context.Context) []model.ChartDescription
}

// Publisher receives tick output.
type Publisher interface {
	Publish(res refresh.Result) bool
	PublishPanel(charts []model.ChartDescription)
}

// Scheduler manages the periodic refresh tick.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Publisher Publisher
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Refresher, p Publisher) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Publisher: p,
		Ctx:       ctx,
	}
}

// Register adds the refresh tick. Ticks that fire while the previous one is still running
// are skipped.
func (s *Scheduler) Register(tickCron string) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.Tick))
	if _, err := s.Cron.AddJob(tickCron, job); err != nil {
		return fmt.Errorf("register refresh tick: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running tick.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// Tick replays the last controls and refreshes the mini-chart panel.
func (s *Scheduler) Tick() {
	if s.Ctx.Err() != nil {
		return
	}
	if res, ok := s.Refresher.RefreshCurrent(s.Ctx); ok {
		s.Publisher.Publish(res)
	} else {
		log.Debug("tick skipped: no controls yet")
	}

	if panel := s.Refresher.Panel(s.Ctx); len(panel) > 0 {
		s.Publisher.PublishPanel(panel)
	}
}
