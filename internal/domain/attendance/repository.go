package attendance

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для записей посещаемости.
//
// Пара (студент, день) служит ключом upsert-а: Upsert обновляет
// существующую запись на месте или создаёт новую. Операция не
// атомарна относительно конкурентных писателей - побеждает последняя
// запись, что приемлемо для модели "один оператор".
type Repository interface {
	// List возвращает все записи посещаемости.
	List(ctx context.Context) ([]*Record, error)

	// GetByID возвращает запись по идентификатору.
	// Возвращает ErrRecordNotFound, если запись не найдена.
	GetByID(ctx context.Context, id RecordID) (*Record, error)

	// ListByStudent возвращает все записи студента.
	ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*Record, error)

	// ListByDay возвращает все записи за календарный день.
	ListByDay(ctx context.Context, day timeutil.Day) ([]*Record, error)

	// FindByStudentAndDay возвращает запись для точной пары (студент, день).
	// Возвращает ErrRecordNotFound, если записи нет.
	FindByStudentAndDay(ctx context.Context, studentID roster.StudentID, day timeutil.Day) (*Record, error)

	// Upsert сохраняет отметку для пары (студент, день): обновляет
	// существующую запись или создаёт новую. Возвращает итоговую запись.
	Upsert(ctx context.Context, studentID roster.StudentID, day timeutil.Day, status Status, notes string) (*Record, error)

	// Delete удаляет запись.
	// Возвращает ErrRecordNotFound, если запись не найдена.
	Delete(ctx context.Context, id RecordID) error
}
