package reporting

import (
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ОТЧЁТНЫЕ СОБЫТИЯ
// ══════════════════════════════════════════════════════════════════════════════

// AtRiskDetectedEvent публикуется, когда фоновое сканирование находит
// студента зоны риска.
type AtRiskDetectedEvent struct {
	shared.BaseEvent
	StudentID roster.StudentID `json:"student_id"`
	FullName  string           `json:"full_name"`
	Average   float64          `json:"average"`
}

// NewAtRiskDetectedEvent создаёт событие обнаружения студента зоны риска.
func NewAtRiskDetectedEvent(st *roster.Student, average float64) AtRiskDetectedEvent {
	return AtRiskDetectedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventAtRiskDetected, st.ID.String()),
		StudentID: st.ID,
		FullName:  st.FullName(),
		Average:   average,
	}
}

// ReportsRebuiltEvent публикуется после успешной фоновой пересборки
// кэшированных отчётных представлений.
type ReportsRebuiltEvent struct {
	shared.BaseEvent
	TotalStudents int `json:"total_students"`
	AtRiskCount   int `json:"at_risk_count"`
}

// NewReportsRebuiltEvent создаёт событие пересборки отчётов.
func NewReportsRebuiltEvent(totalStudents, atRiskCount int) ReportsRebuiltEvent {
	return ReportsRebuiltEvent{
		BaseEvent:     shared.NewBaseEvent(shared.EventReportsRebuilt, "dashboard"),
		TotalStudents: totalStudents,
		AtRiskCount:   atRiskCount,
	}
}

// ReportExportedEvent публикуется при сборке отчёта с идентификатором
// выгрузки.
type ReportExportedEvent struct {
	shared.BaseEvent
	ExportID string `json:"export_id"`
	Range    string `json:"range"`
}

// NewReportExportedEvent создаёт событие выгрузки отчёта.
func NewReportExportedEvent(exportID, dateRange string) ReportExportedEvent {
	return ReportExportedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventReportExported, exportID),
		ExportID:  exportID,
		Range:     dateRange,
	}
}
