package command

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/internal/domain/shared"
	"github.com/classtrack/classtrack-backend/internal/infrastructure/persistence/memory"
)

// stubPublisher копит опубликованные события для проверок.
type stubPublisher struct {
	events []shared.Event
}

func (p *stubPublisher) Publish(e shared.Event) {
	p.events = append(p.events, e)
}

func (p *stubPublisher) types() []shared.EventType {
	out := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedStudent зачисляет студента напрямую через репозиторий.
func seedStudent(t *testing.T, p *memory.Provider, code roster.Code) *roster.Student {
	t.Helper()
	s, err := roster.NewStudent(roster.NewStudentParams{
		FirstName:  "Aliya",
		LastName:   "Nurlanova",
		Code:       code,
		GradeLevel: roster.GradeLevel10,
		Class:      "10-A",
	})
	require.NoError(t, err)

	created, err := p.Students().Create(context.Background(), s)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
