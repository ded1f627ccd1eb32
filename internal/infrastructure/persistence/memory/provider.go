// Package memory implements in-memory repositories for the school
// dashboard. Used in tests and in the standalone dev mode where no
// database is available. IDs are assigned as max existing ID plus one,
// so deleting the newest row can recycle its ID.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/attendance"
	"github.com/classtrack/classtrack-backend/internal/domain/department"
	"github.com/classtrack/classtrack-backend/internal/domain/gradebook"
	"github.com/classtrack/classtrack-backend/internal/domain/roster"
	"github.com/classtrack/classtrack-backend/pkg/timeutil"
)

// Provider bundles all in-memory repositories over a single mutex.
type Provider struct {
	mu          sync.RWMutex
	students    []*roster.Student
	grades      []*gradebook.Grade
	records     []*attendance.Record
	departments []*department.Department
}

// NewProvider creates an empty in-memory provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Students returns the roster repository.
func (p *Provider) Students() roster.Repository { return &studentRepo{p: p} }

// Grades returns the gradebook repository.
func (p *Provider) Grades() gradebook.Repository { return &gradeRepo{p: p} }

// Attendance returns the attendance repository.
func (p *Provider) Attendance() attendance.Repository { return &attendanceRepo{p: p} }

// Departments returns the department repository.
func (p *Provider) Departments() department.Repository { return &departmentRepo{p: p} }

// ─────────────────────────────────────────────────────────────────────────────
// Seed Helpers
// ─────────────────────────────────────────────────────────────────────────────

// SeedStudent inserts a student as-is, assigning an ID if missing.
func (p *Provider) SeedStudent(s *roster.Student) *roster.Student {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := s.Clone()
	if !c.ID.IsValid() {
		c.ID = roster.StudentID(p.nextStudentID())
	}
	p.students = append(p.students, c)
	return c.Clone()
}

// SeedGrade inserts a grade as-is, assigning an ID if missing.
func (p *Provider) SeedGrade(g *gradebook.Grade) *gradebook.Grade {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := g.Clone()
	if !c.ID.IsValid() {
		c.ID = gradebook.GradeID(p.nextGradeID())
	}
	p.grades = append(p.grades, c)
	return c.Clone()
}

// SeedRecord inserts an attendance record as-is, assigning an ID if missing.
func (p *Provider) SeedRecord(r *attendance.Record) *attendance.Record {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := r.Clone()
	if !c.ID.IsValid() {
		c.ID = attendance.RecordID(p.nextRecordID())
	}
	p.records = append(p.records, c)
	return c.Clone()
}

func (p *Provider) nextStudentID() int {
	max := 0
	for _, s := range p.students {
		if s.ID.Int() > max {
			max = s.ID.Int()
		}
	}
	return max + 1
}

func (p *Provider) nextGradeID() int {
	max := 0
	for _, g := range p.grades {
		if g.ID.Int() > max {
			max = g.ID.Int()
		}
	}
	return max + 1
}

func (p *Provider) nextRecordID() int {
	max := 0
	for _, r := range p.records {
		if r.ID.Int() > max {
			max = r.ID.Int()
		}
	}
	return max + 1
}

func (p *Provider) nextDepartmentID() int {
	max := 0
	for _, d := range p.departments {
		if d.ID.Int() > max {
			max = d.ID.Int()
		}
	}
	return max + 1
}

// ─────────────────────────────────────────────────────────────────────────────
// Student Repository
// ─────────────────────────────────────────────────────────────────────────────

type studentRepo struct {
	p *Provider
}

func (r *studentRepo) List(ctx context.Context) ([]*roster.Student, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*roster.Student, 0, len(r.p.students))
	for _, s := range r.p.students {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (r *studentRepo) GetByID(ctx context.Context, id roster.StudentID) (*roster.Student, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	for _, s := range r.p.students {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return nil, roster.ErrStudentNotFound
}

func (r *studentRepo) Create(ctx context.Context, s *roster.Student) (*roster.Student, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for _, existing := range r.p.students {
		if existing.Code == s.Code {
			return nil, roster.ErrCodeTaken
		}
	}

	c := s.Clone()
	c.ID = roster.StudentID(r.p.nextStudentID())
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.p.students = append(r.p.students, c)
	return c.Clone(), nil
}

func (r *studentRepo) Update(ctx context.Context, s *roster.Student) (*roster.Student, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, existing := range r.p.students {
		if existing.ID != s.ID {
			continue
		}
		for _, other := range r.p.students {
			if other.ID != s.ID && other.Code == s.Code {
				return nil, roster.ErrCodeTaken
			}
		}
		c := s.Clone()
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = time.Now().UTC()
		r.p.students[i] = c
		return c.Clone(), nil
	}
	return nil, roster.ErrStudentNotFound
}

func (r *studentRepo) Delete(ctx context.Context, id roster.StudentID) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, s := range r.p.students {
		if s.ID == id {
			r.p.students = append(r.p.students[:i], r.p.students[i+1:]...)
			return nil
		}
	}
	return roster.ErrStudentNotFound
}

func (r *studentRepo) Search(ctx context.Context, query string) ([]*roster.Student, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*roster.Student, 0)
	for _, s := range r.p.students {
		if s.MatchesQuery(q) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Grade Repository
// ─────────────────────────────────────────────────────────────────────────────

type gradeRepo struct {
	p *Provider
}

func (r *gradeRepo) List(ctx context.Context) ([]*gradebook.Grade, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*gradebook.Grade, 0, len(r.p.grades))
	for _, g := range r.p.grades {
		out = append(out, g.Clone())
	}
	return out, nil
}

func (r *gradeRepo) GetByID(ctx context.Context, id gradebook.GradeID) (*gradebook.Grade, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	for _, g := range r.p.grades {
		if g.ID == id {
			return g.Clone(), nil
		}
	}
	return nil, gradebook.ErrGradeNotFound
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*gradebook.Grade, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*gradebook.Grade, 0)
	for _, g := range r.p.grades {
		if g.StudentID == studentID {
			out = append(out, g.Clone())
		}
	}
	return out, nil
}

func (r *gradeRepo) ListBySubject(ctx context.Context, subject gradebook.Subject) ([]*gradebook.Grade, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*gradebook.Grade, 0)
	for _, g := range r.p.grades {
		if g.Subject == subject {
			out = append(out, g.Clone())
		}
	}
	return out, nil
}

func (r *gradeRepo) Create(ctx context.Context, g *gradebook.Grade) (*gradebook.Grade, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	c := g.Clone()
	c.ID = gradebook.GradeID(r.p.nextGradeID())
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.p.grades = append(r.p.grades, c)
	return c.Clone(), nil
}

func (r *gradeRepo) Update(ctx context.Context, g *gradebook.Grade) (*gradebook.Grade, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, existing := range r.p.grades {
		if existing.ID != g.ID {
			continue
		}
		c := g.Clone()
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = time.Now().UTC()
		r.p.grades[i] = c
		return c.Clone(), nil
	}
	return nil, gradebook.ErrGradeNotFound
}

func (r *gradeRepo) Delete(ctx context.Context, id gradebook.GradeID) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, g := range r.p.grades {
		if g.ID == id {
			r.p.grades = append(r.p.grades[:i], r.p.grades[i+1:]...)
			return nil
		}
	}
	return gradebook.ErrGradeNotFound
}

// ─────────────────────────────────────────────────────────────────────────────
// Attendance Repository
// ─────────────────────────────────────────────────────────────────────────────

type attendanceRepo struct {
	p *Provider
}

func (r *attendanceRepo) List(ctx context.Context) ([]*attendance.Record, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*attendance.Record, 0, len(r.p.records))
	for _, rec := range r.p.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id attendance.RecordID) (*attendance.Record, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	for _, rec := range r.p.records {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}
	return nil, attendance.ErrRecordNotFound
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID roster.StudentID) ([]*attendance.Record, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*attendance.Record, 0)
	for _, rec := range r.p.records {
		if rec.StudentID == studentID {
			out = append(out, rec.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *attendanceRepo) ListByDay(ctx context.Context, day timeutil.Day) ([]*attendance.Record, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*attendance.Record, 0)
	for _, rec := range r.p.records {
		if rec.Day.Equal(day) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

func (r *attendanceRepo) FindByStudentAndDay(ctx context.Context, studentID roster.StudentID, day timeutil.Day) (*attendance.Record, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	if rec := r.p.findRecordLocked(studentID, day); rec != nil {
		return rec.Clone(), nil
	}
	return nil, attendance.ErrRecordNotFound
}

func (r *attendanceRepo) Upsert(ctx context.Context, studentID roster.StudentID, day timeutil.Day, status attendance.Status, notes string) (*attendance.Record, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	if rec := r.p.findRecordLocked(studentID, day); rec != nil {
		rec.Status = status
		rec.Notes = notes
		rec.UpdatedAt = time.Now().UTC()
		return rec.Clone(), nil
	}

	now := time.Now().UTC()
	rec := &attendance.Record{
		ID:        attendance.RecordID(r.p.nextRecordID()),
		StudentID: studentID,
		Day:       day,
		Status:    status,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.p.records = append(r.p.records, rec)
	return rec.Clone(), nil
}

func (r *attendanceRepo) Delete(ctx context.Context, id attendance.RecordID) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, rec := range r.p.records {
		if rec.ID == id {
			r.p.records = append(r.p.records[:i], r.p.records[i+1:]...)
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

// findRecordLocked returns the newest record for the (student, day)
// pair. Callers must hold the provider mutex.
func (p *Provider) findRecordLocked(studentID roster.StudentID, day timeutil.Day) *attendance.Record {
	var found *attendance.Record
	for _, rec := range p.records {
		if rec.StudentID == studentID && rec.Day.Equal(day) {
			if found == nil || rec.ID > found.ID {
				found = rec
			}
		}
	}
	return found
}

// ─────────────────────────────────────────────────────────────────────────────
// Department Repository
// ─────────────────────────────────────────────────────────────────────────────

type departmentRepo struct {
	p *Provider
}

func (r *departmentRepo) List(ctx context.Context) ([]*department.Department, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*department.Department, 0, len(r.p.departments))
	for _, d := range r.p.departments {
		out = append(out, d.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *departmentRepo) GetByID(ctx context.Context, id department.DepartmentID) (*department.Department, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	for _, d := range r.p.departments {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return nil, department.ErrDepartmentNotFound
}

func (r *departmentRepo) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	c := d.Clone()
	c.ID = department.DepartmentID(r.p.nextDepartmentID())
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.p.departments = append(r.p.departments, c)
	return c.Clone(), nil
}

func (r *departmentRepo) Update(ctx context.Context, d *department.Department) (*department.Department, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, existing := range r.p.departments {
		if existing.ID != d.ID {
			continue
		}
		c := d.Clone()
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = time.Now().UTC()
		r.p.departments[i] = c
		return c.Clone(), nil
	}
	return nil, department.ErrDepartmentNotFound
}

func (r *departmentRepo) Delete(ctx context.Context, id department.DepartmentID) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for i, d := range r.p.departments {
		if d.ID == id {
			r.p.departments = append(r.p.departments[:i], r.p.departments[i+1:]...)
			return nil
		}
	}
	return department.ErrDepartmentNotFound
}

func (r *departmentRepo) Search(ctx context.Context, query string) ([]*department.Department, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	out := make([]*department.Department, 0)
	for _, d := range r.p.departments {
		if d.MatchesQuery(query) {
			out = append(out, d.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
