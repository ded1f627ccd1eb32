// Package attendance содержит доменную модель посещаемости ClassTrack:
// запись посещаемости на (студент, день) и циклический автомат статусов,
// по которому оператор переключает отметку кликами.
package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS & ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// RecordID представляет уникальный идентификатор записи посещаемости.
type RecordID int

// IsValid проверяет, что RecordID положительный.
func (id RecordID) IsValid() bool {
	return id > 0
}

// Int возвращает числовое значение идентификатора.
func (id RecordID) Int() int {
	return int(id)
}

// Status определяет отметку посещаемости на день.
// Пустое значение означает "записи нет".
type Status string

const (
	// StatusPresent - присутствовал.
	StatusPresent Status = "present"
	// StatusAbsent - отсутствовал.
	StatusAbsent Status = "absent"
	// StatusLate - опоздал.
	StatusLate Status = "late"
	// StatusExcused - отсутствовал по уважительной причине.
	StatusExcused Status = "excused"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// IsSatisfied возвращает true, если день засчитывается в посещаемость.
// Засчитываются present и excused; late и absent - нет.
func (s Status) IsSatisfied() bool {
	return s == StatusPresent || s == StatusExcused
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS CYCLE
// Фиксированный циклический порядок переключения отметки:
// нет записи -> present -> absent -> late -> excused -> present -> ...
// ══════════════════════════════════════════════════════════════════════════════

// cycleOrder - порядок статусов в цикле переключения.
var cycleOrder = [...]Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// NextStatus возвращает следующий статус цикла после текущего.
// Пустой current (записи ещё нет) ведёт себя как позиция перед present:
// первый клик всегда даёт present.
func NextStatus(current Status) Status {
	idx := -1
	for i, s := range cycleOrder {
		if s == current {
			idx = i
			break
		}
	}
	return cycleOrder[(idx+1)%len(cycleOrder)]
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record представляет отметку посещаемости студента на один день.
// Инвариант "не более одной записи на (студент, день)" обеспечивается
// upsert-семантикой пути записи, а не ограничением хранилища.
type Record struct {
	// ID - идентификатор, назначенный хранилищем.
	ID RecordID

	// StudentID - ссылка на студента.
	StudentID roster.StudentID

	// Day - календарный день отметки.
	Day timeutil.Day

	// Status - отметка посещаемости.
	Status Status

	// Notes - свободный комментарий (опционально).
	Notes string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidRecordID - невалидный идентификатор записи.
	ErrInvalidRecordID = errors.New("invalid attendance record id: must be positive")

	// ErrInvalidStatus - невалидный статус посещаемости.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrInvalidDay - запись посещаемости требует календарного дня.
	ErrInvalidDay = errors.New("attendance record requires a calendar day")

	// ErrRecordNotFound - запись не найдена.
	ErrRecordNotFound = errors.New("attendance record not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & MUTATION
// ══════════════════════════════════════════════════════════════════════════════

// NewRecordParams содержит параметры для создания записи посещаемости.
type NewRecordParams struct {
	StudentID roster.StudentID
	Day       timeutil.Day // нулевое значение = сегодня
	Status    Status
	Notes     string
}

// NewRecord создаёт новую запись посещаемости с валидацией.
func NewRecord(params NewRecordParams) (*Record, error) {
	if !params.StudentID.IsValid() {
		return nil, roster.ErrInvalidStudentID
	}
	if !params.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	day := params.Day
	if day.IsZero() {
		day = timeutil.Today()
	}

	now := time.Now().UTC()

	return &Record{
		StudentID: params.StudentID,
		Day:       day,
		Status:    params.Status,
		Notes:     strings.TrimSpace(params.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetStatus меняет отметку и комментарий записи.
func (r *Record) SetStatus(status Status, notes string) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	r.Status = status
	r.Notes = strings.TrimSpace(notes)
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Advance переводит отметку на следующий статус цикла.
func (r *Record) Advance() {
	r.Status = NextStatus(r.Status)
	r.UpdatedAt = time.Now().UTC()
}

// String возвращает строковое представление записи для логирования.
func (r *Record) String() string {
	return fmt.Sprintf(
		"Attendance{ID: %d, Student: %d, Day: %s, Status: %s}",
		r.ID, r.StudentID, r.Day, r.Status,
	)
}

// Clone создаёт копию записи.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
