package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/reporting"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT LOADER
// Все отчётные запросы агрегируют полные наборы данных. Загрузчик
// собирает их из трёх репозиториев параллельно и отдаёт движку
// отчётов единым снимком. Частичная загрузка недопустима: если один
// набор не получен, весь снимок считается неудавшимся.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotLoader загружает снимок данных для отчётного движка.
type SnapshotLoader struct {
	students roster.Repository
	grades   gradebook.Repository
	records  attendance.Repository
}

// NewSnapshotLoader создаёт новый загрузчик снимков.
func NewSnapshotLoader(students roster.Repository, grades gradebook.Repository, records attendance.Repository) *SnapshotLoader {
	return &SnapshotLoader{
		students: students,
		grades:   grades,
		records:  records,
	}
}

// Load параллельно читает студентов, оценки и посещаемость и строит
// снимок. Ошибка любой из трёх загрузок отменяет остальные.
func (l *SnapshotLoader) Load(ctx context.Context) (*reporting.Snapshot, error) {
	var (
		students []*roster.Student
		grades   []*gradebook.Grade
		records  []*attendance.Record
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = l.students.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		grades, err = l.grades.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = l.records.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, shared.WrapError("reporting", "Load", shared.ErrExternalService, "failed to load snapshot", err)
	}

	return reporting.NewSnapshot(students, grades, records), nil
}
