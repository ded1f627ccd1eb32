package roster

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранилища студентов. Реализации находятся в
// infrastructure/persistence (postgres и in-memory).
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для студентов.
// Идентификаторы назначает хранилище; домен их никогда не генерирует.
type Repository interface {
	// List возвращает всех студентов в порядке хранения.
	List(ctx context.Context) ([]*Student, error)

	// GetByID возвращает студента по идентификатору.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id StudentID) (*Student, error)

	// Create сохраняет нового студента и возвращает его с назначенным ID.
	Create(ctx context.Context, s *Student) (*Student, error)

	// Update обновляет данные студента.
	// Возвращает ErrStudentNotFound, если студент не найден.
	Update(ctx context.Context, s *Student) (*Student, error)

	// Delete удаляет студента.
	// Возвращает ErrStudentNotFound, если студент не найден.
	Delete(ctx context.Context, id StudentID) error

	// Search выполняет поиск по имени, фамилии, коду и email.
	Search(ctx context.Context, query string) ([]*Student, error)
}
