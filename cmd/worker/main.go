// Package main - точка входа фоновых процессов (Worker) ClassTrack.
//
// Worker отвечает за периодические задачи:
// - Пересборка кешированных отчётных представлений
// - Ежедневный поиск отстающих студентов (at-risk)
//
// Worker работает рядом с HTTP API и делит с ним базу данных и кеш.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/classtrack/classtrack-backend/config"

	// Application layer
	"github.com/classtrack/classtrack-backend/internal/application/query"

	// Infrastructure layer
	"github.com/classtrack/classtrack-backend/internal/infrastructure/messaging"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/postgres"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/redis"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/scheduler"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/scheduler/jobs"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the worker")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting ClassTrack Worker",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// Worker тоже должен иметь актуальную схему.
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. КЕШ ОТЧЁТОВ (Redis, опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var reportCache query.ReportCache = query.NopCache{}

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, report rebuilding disabled", "error", err)
		} else {
			defer redisCache.Close()
			reportCache = redis.NewReportCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. СОБЫТИЙНАЯ ШИНА
	// ─────────────────────────────────────────────────────────────────────────
	eventBusConfig := messaging.DefaultEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. РЕГИСТРАЦИЯ ФОНОВЫХ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(dbConn)
	gradeRepo := postgres.NewGradeRepository(dbConn)
	attendanceRepo := postgres.NewAttendanceRepository(dbConn)

	loader := query.NewSnapshotLoader(studentRepo, gradeRepo, attendanceRepo)

	sched := scheduler.New(scheduler.Config{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	rebuildJob := jobs.NewRebuildReportsJob(loader, reportCache, cfg.Redis.ReportTTL, eventBus, log)
	if err := sched.Register(rebuildJob, scheduler.Every(cfg.Scheduler.RebuildReportsInterval)); err != nil {
		return fmt.Errorf("failed to register rebuild job: %w", err)
	}

	atRiskJob := jobs.NewDetectAtRiskJob(loader, eventBus, log)
	if err := sched.Register(atRiskJob, scheduler.DailyAt(cfg.Scheduler.AtRiskScanHour, cfg.Scheduler.AtRiskScanMinute)); err != nil {
		return fmt.Errorf("failed to register at-risk job: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler is disabled, worker will idle")
	} else {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("ClassTrack Worker is running",
			"rebuild_interval", cfg.Scheduler.RebuildReportsInterval.String(),
			"at_risk_scan", fmt.Sprintf("%02d:%02d", cfg.Scheduler.AtRiskScanHour, cfg.Scheduler.AtRiskScanMinute),
		)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	if sched.IsRunning() {
		log.Info("stopping scheduler...")
		if err := sched.Stop(); err != nil {
			log.Error("failed to stop scheduler gracefully", "error", err)
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Observability.LogFormat, "text") || cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// parseLogLevel переводит строковый уровень в slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
