// Package postgres implements the PostgreSQL persistence layer for the
// school dashboard.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const attendanceColumns = `id, student_id, day, status, notes, created_at, updated_at`

// AttendanceRepository implements attendance.Repository for PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// List returns all attendance records in insertion order.
func (r *AttendanceRepository) List(ctx context.Context) ([]*attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance ORDER BY id", attendanceColumns)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// GetByID returns an attendance record by ID.
func (r *AttendanceRepository) GetByID(ctx context.Context, id attendance.RecordID) (*attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE id = $1", attendanceColumns)

	row := r.conn.QueryRow(ctx, query, id.Int())
	return r.scanRecord(row)
}

// ListByStudent returns all attendance records for a student.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE student_id = $1 ORDER BY day", attendanceColumns)

	rows, err := r.conn.Query(ctx, query, studentID.Int())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by student: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// ListByDay returns all attendance records for a calendar day.
func (r *AttendanceRepository) ListByDay(ctx context.Context, day timeutil.Day) ([]*attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE day = $1 ORDER BY id", attendanceColumns)

	rows, err := r.conn.Query(ctx, query, day.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by day: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindByStudentAndDay returns the record for the exact (student, day) pair.
// When historical imports left duplicates, the newest row wins.
func (r *AttendanceRepository) FindByStudentAndDay(ctx context.Context, studentID roster.StudentID, day timeutil.Day) (*attendance.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attendance
		WHERE student_id = $1 AND day = $2
		ORDER BY id DESC
		LIMIT 1
	`, attendanceColumns)

	row := r.conn.QueryRow(ctx, query, studentID.Int(), day.Time())
	return r.scanRecord(row)
}

// Upsert writes the mark for the (student, day) pair: updates the
// existing record in place or inserts a new one. Last write wins.
func (r *AttendanceRepository) Upsert(ctx context.Context, studentID roster.StudentID, day timeutil.Day, status attendance.Status, notes string) (*attendance.Record, error) {
	now := time.Now().UTC()

	updateQuery := fmt.Sprintf(`
		UPDATE attendance SET status = $1, notes = $2, updated_at = $3
		WHERE id = (
			SELECT id FROM attendance
			WHERE student_id = $4 AND day = $5
			ORDER BY id DESC
			LIMIT 1
		)
		RETURNING %s
	`, attendanceColumns)

	row := r.conn.QueryRow(ctx, updateQuery, string(status), notes, now, studentID.Int(), day.Time())
	record, err := r.scanRecord(row)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, attendance.ErrRecordNotFound) {
		return nil, err
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO attendance (student_id, day, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, attendanceColumns)

	row = r.conn.QueryRow(ctx, insertQuery, studentID.Int(), day.Time(), string(status), notes, now, now)
	record, err = r.scanRecord(row)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, roster.ErrStudentNotFound
		}
		return nil, err
	}
	return record, nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id attendance.RecordID) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id.Int())
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AttendanceRepository) scanRecord(row pgx.Row) (*attendance.Record, error) {
	var (
		rec       attendance.Record
		id        int
		studentID int
		day       time.Time
		status    string
	)

	err := row.Scan(
		&id,
		&studentID,
		&day,
		&status,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan attendance record: %w", err)
	}

	rec.ID = attendance.RecordID(id)
	rec.StudentID = roster.StudentID(studentID)
	rec.Day = timeutil.FromTime(day)
	rec.Status = attendance.Status(status)
	return &rec, nil
}

func (r *AttendanceRepository) scanRecords(rows pgx.Rows) ([]*attendance.Record, error) {
	records := make([]*attendance.Record, 0)
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
