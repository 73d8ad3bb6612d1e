package cron

import (
	"context"
	"log/slog"
	"time"

	"registrationBot/internal/conversation"
	"registrationBot/internal/pkg/logger/sl"

	"github.com/robfig/cron/v3"
)

// DefaultSpec - каждые 10 минут
const DefaultSpec = "@every 10m"

// SweepObserver получает количество удаленных диалогов
type SweepObserver interface {
	AddSwept(n int)
}

// Scheduler управляет крон-джобами
type Scheduler struct {
	cron     *cron.Cron
	log      *slog.Logger
	sweeper  conversation.Sweeper
	observer SweepObserver
	spec     string
}

func New(log *slog.Logger, sweeper conversation.Sweeper, observer SweepObserver, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		log:      log,
		sweeper:  sweeper,
		observer: observer,
		spec:     spec,
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("cron scheduler started", slog.String("spec", s.spec))

	return nil
}

// Stop останавливает планировщик и ждет завершения текущей задачи
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron scheduler stopped")
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.log.Error("failed to sweep conversations", sl.Err(err))
		return
	}

	if s.observer != nil {
		s.observer.AddSwept(removed)
	}

	if removed > 0 {
		s.log.Info("abandoned conversations removed", slog.Int("count", removed))
	}
}
