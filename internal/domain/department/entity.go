// Package department содержит доменную модель кафедры ClassTrack.
package department

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DepartmentID представляет уникальный идентификатор кафедры.
type DepartmentID int

// IsValid проверяет, что DepartmentID положительный.
func (id DepartmentID) IsValid() bool {
	return id > 0
}

// Int возвращает числовое значение идентификатора.
func (id DepartmentID) Int() int {
	return int(id)
}

// Department представляет кафедру (организационное подразделение школы).
type Department struct {
	// ID - идентификатор, назначенный хранилищем.
	ID DepartmentID

	// Name - название кафедры.
	Name string

	// Description - описание (опционально).
	Description string

	// Location - расположение, например корпус и кабинет (опционально).
	Location string

	// Phone - контактный телефон (опционально).
	Phone string

	// Tags - произвольные метки через запятую (опционально).
	Tags string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

var (
	// ErrInvalidDepartmentID - невалидный идентификатор кафедры.
	ErrInvalidDepartmentID = errors.New("invalid department id: must be positive")

	// ErrInvalidDepartmentName - название кафедры обязательно.
	ErrInvalidDepartmentName = errors.New("invalid department name: must be 1-100 chars")

	// ErrDepartmentNotFound - кафедра не найдена.
	ErrDepartmentNotFound = errors.New("department not found")
)

// NewDepartmentParams содержит параметры для создания кафедры.
type NewDepartmentParams struct {
	Name        string
	Description string
	Location    string
	Phone       string
	Tags        string
}

// NewDepartment создаёт новую кафедру с валидацией.
func NewDepartment(params NewDepartmentParams) (*Department, error) {
	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidDepartmentName
	}

	now := time.Now().UTC()

	return &Department{
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		Phone:       strings.TrimSpace(params.Phone),
		Tags:        strings.TrimSpace(params.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MatchesQuery проверяет, подходит ли кафедра под поисковый запрос.
// Поиск без учёта регистра по названию и расположению.
func (d *Department) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), q) ||
		strings.Contains(strings.ToLower(d.Location), q)
}

// Clone создаёт копию кафедры.
func (d *Department) Clone() *Department {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

// Repository определяет операции хранилища для кафедр.
type Repository interface {
	// List возвращает все кафедры, отсортированные по названию.
	List(ctx context.Context) ([]*Department, error)

	// GetByID возвращает кафедру по идентификатору.
	// Возвращает ErrDepartmentNotFound, если кафедра не найдена.
	GetByID(ctx context.Context, id DepartmentID) (*Department, error)

	// Create сохраняет новую кафедру и возвращает её с назначенным ID.
	Create(ctx context.Context, d *Department) (*Department, error)

	// Update обновляет кафедру.
	// Возвращает ErrDepartmentNotFound, если кафедра не найдена.
	Update(ctx context.Context, d *Department) (*Department, error)

	// Delete удаляет кафедру.
	// Возвращает ErrDepartmentNotFound, если кафедра не найдена.
	Delete(ctx context.Context, id DepartmentID) error

	// Search выполняет поиск по названию и расположению.
	Search(ctx context.Context, query string) ([]*Department, error)
}
