package gradebook

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для оценок.
type Repository interface {
	// List возвращает все оценки.
	List(ctx context.Context) ([]*Grade, error)

	// GetByID возвращает оценку по идентификатору.
	// Возвращает ErrGradeNotFound, если оценка не найдена.
	GetByID(ctx context.Context, id GradeID) (*Grade, error)

	// ListByStudent возвращает все оценки студента.
	ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*Grade, error)

	// ListBySubject возвращает все оценки по предмету.
	ListBySubject(ctx context.Context, subject Subject) ([]*Grade, error)

	// Create сохраняет новую оценку и возвращает её с назначенным ID.
	Create(ctx context.Context, g *Grade) (*Grade, error)

	// Update обновляет оценку.
	// Возвращает ErrGradeNotFound, если оценка не найдена.
	Update(ctx context.Context, g *Grade) (*Grade, error)

	// Delete удаляет оценку.
	// Возвращает ErrGradeNotFound, если оценка не найдена.
	Delete(ctx context.Context, id GradeID) error
}
