// Package postgres implements the PostgreSQL persistence layer for the
// school dashboard.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const gradeColumns = `id, student_id, subject, semester, score, max_score,
	percentage, letter, grade_date, created_at, updated_at`

// GradeRepository implements gradebook.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

// List returns all grades in insertion order.
func (r *GradeRepository) List(ctx context.Context) ([]*gradebook.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades ORDER BY id", gradeColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// GetByID returns a grade by ID.
func (r *GradeRepository) GetByID(ctx context.Context, id gradebook.GradeID) (*gradebook.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE id = $1", gradeColumns)

	row := r.conn.QueryRow(ctx, query, id.Int())
	return r.scanGrade(row)
}

// ListByStudent returns all grades for a student.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*gradebook.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE student_id = $1 ORDER BY id", gradeColumns)

	rows, err := r.conn.Query(ctx, query, studentID.Int())
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by student: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// ListBySubject returns all grades for a subject.
func (r *GradeRepository) ListBySubject(ctx context.Context, subject gradebook.Subject) ([]*gradebook.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE subject = $1 ORDER BY id", gradeColumns)

	rows, err := r.conn.Query(ctx, query, string(subject))
	if err != nil {
		return nil, fmt.Errorf("failed to list grades by subject: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// Create inserts a new grade and returns it with the assigned ID.
func (r *GradeRepository) Create(ctx context.Context, g *gradebook.Grade) (*gradebook.Grade, error) {
	query := `
		INSERT INTO grades (
			student_id, subject, semester, score, max_score,
			percentage, letter, grade_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now().UTC()
	var id int
	err := r.conn.QueryRow(ctx, query,
		g.StudentID.Int(),
		string(g.Subject),
		g.Semester,
		g.Score,
		g.MaxScore,
		g.Percentage,
		string(g.Letter),
		g.Date.Time(),
		now,
		now,
	).Scan(&id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, roster.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to create grade: %w", err)
	}

	created := g.Clone()
	created.ID = gradebook.GradeID(id)
	created.CreatedAt = now
	created.UpdatedAt = now
	return created, nil
}

// Update updates a grade.
func (r *GradeRepository) Update(ctx context.Context, g *gradebook.Grade) (*gradebook.Grade, error) {
	query := `
		UPDATE grades SET
			subject = $1,
			semester = $2,
			score = $3,
			max_score = $4,
			percentage = $5,
			letter = $6,
			grade_date = $7,
			updated_at = $8
		WHERE id = $9
	`

	now := time.Now().UTC()
	result, err := r.conn.Exec(ctx, query,
		string(g.Subject),
		g.Semester,
		g.Score,
		g.MaxScore,
		g.Percentage,
		string(g.Letter),
		g.Date.Time(),
		now,
		g.ID.Int(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, gradebook.ErrGradeNotFound
	}

	updated := g.Clone()
	updated.UpdatedAt = now
	return updated, nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id gradebook.GradeID) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM grades WHERE id = $1", id.Int())
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return gradebook.ErrGradeNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *GradeRepository) scanGrade(row pgx.Row) (*gradebook.Grade, error) {
	var (
		g         gradebook.Grade
		id        int
		studentID int
		subject   string
		letter    string
		gradeDate time.Time
	)

	err := row.Scan(
		&id,
		&studentID,
		&subject,
		&g.Semester,
		&g.Score,
		&g.MaxScore,
		&g.Percentage,
		&letter,
		&gradeDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, gradebook.ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to scan grade: %w", err)
	}

	g.ID = gradebook.GradeID(id)
	g.StudentID = roster.StudentID(studentID)
	g.Subject = gradebook.Subject(subject)
	g.Letter = gradebook.Letter(letter)
	g.Date = timeutil.FromTime(gradeDate)
	return &g, nil
}

func (r *GradeRepository) scanGrades(rows pgx.Rows) ([]*gradebook.Grade, error) {
	grades := make([]*gradebook.Grade, 0)
	for rows.Next() {
		g, err := r.scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}
