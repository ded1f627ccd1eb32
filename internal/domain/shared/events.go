package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип доменного события.
type EventType string

// Типы доменных событий. Каждое событие фиксирует значимое изменение
// в домене; обработчики (инвалидация кеша отчётов, уведомления)
// подписываются на них через шину событий.
const (
	// События ростера
	EventStudentEnrolled EventType = "roster.student_enrolled"
	EventStudentUpdated  EventType = "roster.student_updated"
	EventStudentRemoved  EventType = "roster.student_removed"

	// События журнала оценок
	EventGradeRecorded EventType = "gradebook.grade_recorded"
	EventGradeRevised  EventType = "gradebook.grade_revised"
	EventGradeDeleted  EventType = "gradebook.grade_deleted"

	// События посещаемости
	EventAttendanceMarked EventType = "attendance.marked"

	// События отчётов
	EventAtRiskDetected EventType = "reporting.at_risk_detected"
	EventReportsRebuilt EventType = "reporting.rebuilt"
	EventReportExported EventType = "reporting.exported"
)

// Event - базовый интерфейс всех доменных событий.
type Event interface {
	// EventID возвращает уникальный идентификатор события.
	EventID() string

	// EventType возвращает тип события.
	EventType() EventType

	// OccurredAt возвращает время возникновения события.
	OccurredAt() time.Time

	// AggregateID возвращает ID агрегата, породившего событие.
	AggregateID() string
}

// BaseEvent содержит общую функциональность событий.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventID реализует интерфейс Event.
func (e BaseEvent) EventID() string { return e.ID }

// EventType реализует интерфейс Event.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt реализует интерфейс Event.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID реализует интерфейс Event.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent создаёт новое базовое событие.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// EventHandler обрабатывает доменные события.
type EventHandler interface {
	// Handle обрабатывает событие. Ошибка логируется шиной, но не
	// прерывает доставку остальным обработчикам.
	Handle(event Event) error

	// InterestedIn возвращает типы событий, на которые подписан обработчик.
	// Пустой список означает подписку на все события.
	InterestedIn() []EventType
}

// EventPublisher публикует доменные события.
// Реализуется в infrastructure/messaging.
type EventPublisher interface {
	Publish(event Event)
}

// NopPublisher - заглушка для тестов и конфигураций без шины событий.
type NopPublisher struct{}

// Publish ничего не делает.
func (NopPublisher) Publish(Event) {}
