package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"registrationBot/config"
	httpapp "registrationBot/internal/app/http"
	"registrationBot/internal/conversation"
	convmemory "registrationBot/internal/conversation/memory"
	convredis "registrationBot/internal/conversation/redis"
	"registrationBot/internal/cron"
	"registrationBot/internal/events"
	"registrationBot/internal/metrics"
	"registrationBot/internal/pkg/logger/sl"
	"registrationBot/internal/pkg/password"
	"registrationBot/internal/repository/postgres"
	"registrationBot/internal/service/registration"
	"registrationBot/internal/telegram"
	"registrationBot/internal/validator"
	"registrationBot/internal/verification"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.App
	handler    *telegram.Handler
	dispatcher *telegram.Dispatcher
	scheduler  *cron.Scheduler
	pool       *pgxpool.Pool
	redis      *goredis.Client
	publisher  *events.KafkaPublisher
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	a := &App{log: log}
	checks := make(map[string]httpapp.Pinger)

	pool, err := postgres.NewConnPool(ctx, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to postgres: %w", op, err)
	}
	a.pool = pool

	accounts := postgres.NewAccountStorage(pool)
	if err := accounts.EnsureSchema(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	checks["postgres"] = accounts

	log.Info("connected to postgres")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var conversations conversation.Store

	redisClient, err := convredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}

	if redisClient != nil {
		a.redis = redisClient
		store := convredis.New(redisClient, cfg.Verification.ConversationTTL)
		conversations = store
		checks["redis"] = store
		log.Info("conversation store: redis")
	} else {
		store := convmemory.New(cfg.Verification.ConversationTTL)
		conversations = store
		a.scheduler = cron.New(log, store, m, cfg.Verification.SweepSchedule)
		log.Info("conversation store: memory")
	}

	var (
		emailSender verification.EmailSender
		smsSender   verification.SMSSender
	)
	if cfg.SMTP.Configured() {
		emailSender = verification.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn("smtp is not configured, email codes are disabled")
	}
	if cfg.Twilio.Configured() {
		smsSender = verification.NewTwilioSender(cfg.Twilio)
	} else {
		log.Warn("twilio is not configured, sms codes are disabled")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Configured() {
		kp, err := events.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.publisher = kp
		publisher = kp
		checks["kafka"] = kp
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: failed to create bot API: %w", op, err)
	}
	bot.Debug = cfg.Telegram.Debug

	ctrl := registration.New(
		log,
		accounts,
		conversations,
		telegram.NewMessenger(bot),
		validator.NewContact(validator.NewEmail(nil)),
		verification.NewGenerator(),
		verification.NewDeliverer(log, emailSender, smsSender, cfg.Verification.Region),
		registration.WithPasswordEncoder(password.New(cfg.Security.HashPasswords, cfg.Security.BcryptCost)),
		registration.WithPublisher(publisher),
		registration.WithMetrics(m),
		registration.WithMaxAttempts(cfg.Verification.MaxAttempts),
		registration.WithCodeTTL(cfg.Verification.CodeTTL),
	)

	a.dispatcher = telegram.NewDispatcher(cfg.Telegram.Workers)
	a.handler = telegram.NewHandler(
		log,
		bot,
		ctrl,
		a.dispatcher,
		m,
		cfg.Telegram.PollTimeout,
		cfg.Telegram.HandleTimeout,
	)
	a.HTTPServer = httpapp.New(log, &cfg.HTTP, reg, checks)

	return a, nil
}

// Run блокируется до отмены ctx или ошибки бота/HTTP-сервера
func (a *App) Run(ctx context.Context) error {
	const op = "app.Run"

	log := a.log.With(slog.String("op", op))

	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting telegram bot")
		return a.handler.Start(gctx)
	})

	g.Go(a.HTTPServer.Run)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return a.HTTPServer.Stop(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// Stop дожидается обработки принятых обновлений и закрывает соединения
func (a *App) Stop(ctx context.Context) {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			log.Warn("dispatcher did not drain in time", sl.Err(err))
		}
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	a.close()

	log.Info("application stopped")
}

func (a *App) close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis client", sl.Err(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
