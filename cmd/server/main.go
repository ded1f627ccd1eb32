// Package main - точка входа HTTP API приложения ClassTrack.
//
// ClassTrack - панель управления школьной администрации: ростер
// студентов, журнал оценок, посещаемость, кафедры и агрегированные
// отчёты об успеваемости.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, кеш, событийная шина
// - Interface: HTTP endpoints
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
	"github.com/classtrack/classtrack-backend/internal/application/command"
	"github.com/classtrack/classtrack-backend/internal/application/query"

	// Domain layer
	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"

	// Infrastructure layer
	"github.com/classtrack/classtrack-backend/internal/infrastructure/messaging"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/postgres"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/classtrack/classtrack-backend/internal/interface/http"
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

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting ClassTrack API",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ: PostgreSQL или In-Memory
	// ─────────────────────────────────────────────────────────────────────────
	var (
		studentRepo    roster.Repository
		gradeRepo      gradebook.Repository
		attendanceRepo attendance.Repository
		departmentRepo department.Repository
	)

	healthChecker := httpserver.NewChecker()

	if cfg.Database.URL != "" {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")

		studentRepo = postgres.NewStudentRepository(dbConn)
		gradeRepo = postgres.NewGradeRepository(dbConn)
		attendanceRepo = postgres.NewAttendanceRepository(dbConn)
		departmentRepo = postgres.NewDepartmentRepository(dbConn)

		healthChecker.AddCheck("postgres", dbConn.Ping)
	} else {
		// Без DATABASE_URL данные живут только в памяти процесса.
		// Подходит для локальной разработки и демонстраций.
		log.Warn("DATABASE_URL is not set, using in-memory storage")
		provider := memory.NewProvider()
		studentRepo = provider.Students()
		gradeRepo = provider.Grades()
		attendanceRepo = provider.Attendance()
		departmentRepo = provider.Departments()
	}

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
			log.Warn("failed to connect to Redis, report caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			reportCache = redis.NewReportCache(redisCache)
			healthChecker.AddCheck("redis", redisCache.Ping)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. СОБЫТИЙНАЯ ШИНА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// Любое изменение оценок или посещаемости сбрасывает кеш отчётов.
	invalidator := messaging.NewCacheInvalidator(reportCache, log)
	if err := eventBus.Subscribe(invalidator); err != nil {
		return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	loader := query.NewSnapshotLoader(studentRepo, gradeRepo, attendanceRepo)

	deps := httpserver.Dependencies{
		EnrollStudent:   command.NewEnrollStudentHandler(studentRepo, eventBus, log),
		UpdateStudent:   command.NewUpdateStudentHandler(studentRepo, eventBus, log),
		RemoveStudent:   command.NewRemoveStudentHandler(studentRepo, eventBus, log),
		RecordGrade:     command.NewRecordGradeHandler(gradeRepo, studentRepo, eventBus, log),
		ReviseGrade:     command.NewReviseGradeHandler(gradeRepo, eventBus, log),
		DeleteGrade:     command.NewDeleteGradeHandler(gradeRepo, eventBus, log),
		CycleAttendance: command.NewCycleAttendanceHandler(attendanceRepo, studentRepo, eventBus, log),
		MarkAttendance:  command.NewMarkAttendanceHandler(attendanceRepo, studentRepo, eventBus, log),
		ClearAttendance: command.NewClearAttendanceHandler(attendanceRepo, log),
		Departments:     command.NewDepartmentHandler(departmentRepo, log),

		GetDashboard:        query.NewGetDashboardHandler(loader, reportCache, cfg.Redis.ReportTTL, log),
		GetReport:           query.NewGetReportHandler(loader, eventBus, log),
		GetWeeklyAttendance: query.NewGetWeeklyAttendanceHandler(loader, log),
		GetDaySummary:       query.NewGetDaySummaryHandler(loader, log),
		GetRecentActivity:   query.NewGetRecentActivityHandler(loader, log),
		GetStudentSummary:   query.NewGetStudentSummaryHandler(loader, log),
		ListStudents:        query.NewListStudentsHandler(studentRepo),
		ListGrades:          query.NewListGradesHandler(gradeRepo),
		ListAttendance:      query.NewListAttendanceHandler(attendanceRepo),
		ListDepartments:     query.NewListDepartmentsHandler(departmentRepo),

		Logger:        log,
		HealthChecker: healthChecker,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpServer := httpserver.NewServer(httpConfig, deps)

	errCh := httpServer.StartAsync()

	log.Info("ClassTrack API is running", "address", httpServer.Address())

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("http server error", "error", err)
			return err
		}
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
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
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// JSON формат для production (лучше для агрегаторов логов)
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
