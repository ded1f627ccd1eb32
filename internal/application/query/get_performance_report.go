package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE REPORT QUERY
// Отчёт об успеваемости: сводные показатели, разбивка по предметам,
// разбивка посещаемости и топ-10 студентов для выбранного ростера
// и диапазона дат.
// ══════════════════════════════════════════════════════════════════════════════

// DateRange - именованный диапазон дат отчёта.
type DateRange string

const (
	RangeWeek     DateRange = "week"
	RangeMonth    DateRange = "month"
	RangeSemester DateRange = "semester"
)

// ErrInvalidDateRange возвращается при неизвестном диапазоне дат.
var ErrInvalidDateRange = shared.NewDomainError("reporting", "Report", shared.ErrInvalidInput, "unknown date range")

// Window переводит именованный диапазон в окно дат, отсчитанное
// назад от сегодняшнего дня. Семестр считается как четыре месяца.
func (r DateRange) Window() (timeutil.Window, error) {
	today := timeutil.Today()
	switch r {
	case RangeWeek:
		return timeutil.LastWeeks(today, 1), nil
	case RangeMonth:
		return timeutil.LastMonths(today, 1), nil
	case RangeSemester:
		return timeutil.LastMonths(today, 4), nil
	default:
		return timeutil.Window{}, ErrInvalidDateRange
	}
}

// GetReportQuery - параметры отчёта об успеваемости.
type GetReportQuery struct {
	Class      string
	GradeLevel string
	Status     string
	Range      DateRange
}

// ReportView - полное представление отчёта об успеваемости.
type ReportView struct {
	// ExportID - уникальный идентификатор сборки отчёта для
	// сопоставления выгрузок.
	ExportID string `json:"export_id"`

	Range       DateRange                      `json:"range"`
	Stats       reporting.ReportStats          `json:"stats"`
	Subjects    []reporting.SubjectPerformance `json:"subjects"`
	Attendance  reporting.AttendanceBreakdown  `json:"attendance"`
	TopStudents []reporting.RankedStudent      `json:"top_students"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

// GetReportHandler обрабатывает запрос отчёта об успеваемости.
type GetReportHandler struct {
	loader    *SnapshotLoader
	publisher shared.EventPublisher
	logger    *slog.Logger
}

// NewGetReportHandler создаёт новый обработчик отчётов.
func NewGetReportHandler(loader *SnapshotLoader, publisher shared.EventPublisher, logger *slog.Logger) *GetReportHandler {
	return &GetReportHandler{loader: loader, publisher: publisher, logger: logger}
}

// Handle собирает отчёт об успеваемости.
func (h *GetReportHandler) Handle(ctx context.Context, q GetReportQuery) (*ReportView, error) {
	if q.Range == "" {
		q.Range = RangeMonth
	}
	window, err := q.Range.Window()
	if err != nil {
		return nil, err
	}

	snap, err := h.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	filter := roster.Filter{
		Class:      q.Class,
		GradeLevel: q.GradeLevel,
		Status:     q.Status,
	}

	view := &ReportView{
		ExportID:    uuid.New().String(),
		Range:       q.Range,
		Stats:       snap.Report(filter, window),
		Subjects:    snap.SubjectBreakdown(filter, window),
		Attendance:  snap.BreakdownAttendance(filter, window),
		TopStudents: snap.Leaderboard(filter, window, reporting.ReportLeaderboardSize),
		GeneratedAt: time.Now().UTC(),
	}

	h.publisher.Publish(reporting.NewReportExportedEvent(view.ExportID, string(q.Range)))

	h.logger.Info("report generated",
		slog.String("export_id", view.ExportID),
		slog.String("range", string(q.Range)),
		slog.Int("students", view.Stats.TotalStudents),
	)

	return view, nil
}
