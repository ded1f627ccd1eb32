// Package postgres implements the PostgreSQL persistence layer for the
// school dashboard.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_students",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_grades",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_attendance",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_departments",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS students (
	id SERIAL PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	grade_level TEXT NOT NULL,
	class TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	enrolled_on DATE NOT NULL,
	photo_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_status ON students(status);
CREATE INDEX IF NOT EXISTS idx_students_class ON students(class);
`

const migration001Down = `
DROP TABLE IF EXISTS students;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS grades (
	id SERIAL PRIMARY KEY,
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	subject TEXT NOT NULL,
	semester TEXT NOT NULL DEFAULT '',
	score DOUBLE PRECISION NOT NULL,
	max_score DOUBLE PRECISION NOT NULL,
	percentage DOUBLE PRECISION NOT NULL,
	letter TEXT NOT NULL,
	grade_date DATE NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_grades_student ON grades(student_id);
CREATE INDEX IF NOT EXISTS idx_grades_subject ON grades(subject);
CREATE INDEX IF NOT EXISTS idx_grades_date ON grades(grade_date DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS grades;
`

// Attendance deliberately has no unique constraint on (student_id, day):
// the repository resolves the pair on upsert with last-write-wins
// semantics, and a constraint would break imports of historical data
// that contain duplicate rows.
const migration003Up = `
CREATE TABLE IF NOT EXISTS attendance (
	id SERIAL PRIMARY KEY,
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	day DATE NOT NULL,
	status TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_id);
CREATE INDEX IF NOT EXISTS idx_attendance_day ON attendance(day);
CREATE INDEX IF NOT EXISTS idx_attendance_student_day ON attendance(student_id, day);
`

const migration003Down = `
DROP TABLE IF EXISTS attendance;
`

const migration004Up = `
CREATE TABLE IF NOT EXISTS departments (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	tags TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration004Down = `
DROP TABLE IF EXISTS departments;
`
