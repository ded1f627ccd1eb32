// Package http implements the REST API of the ClassTrack dashboard.
package http

import (
	"net/http"

	"github.com/classtrack/classtrack-backend/internal/application/command"
	"github.com/classtrack/classtrack-backend/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "ClassTrack API",
		"version":     "v1",
		"description": "REST API for the ClassTrack school administration dashboard",
		"endpoints": map[string]string{
			"health":      "/health",
			"students":    "/api/v1/students",
			"grades":      "/api/v1/grades",
			"attendance":  "/api/v1/attendance",
			"departments": "/api/v1/departments",
			"dashboard":   "/api/v1/dashboard",
			"report":      "/api/v1/reports/performance",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/v1/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	q := query.ListStudentsQuery{
		Class:      getQueryParam(r, "class", ""),
		GradeLevel: getQueryParam(r, "grade_level", ""),
		Status:     getQueryParam(r, "status", ""),
		Search:     getQueryParam(r, "q", ""),
	}

	students, err := s.deps.ListStudents.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONList(w, http.StatusOK, students, len(students))
}

// enrollStudentRequest is the body of POST /api/v1/students.
type enrollStudentRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Code       string `json:"code"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	GradeLevel string `json:"grade_level"`
	Class      string `json:"class"`
	Status     string `json:"status"`
	EnrolledOn string `json:"enrolled_on"`
	PhotoURL   string `json:"photo_url"`
}

// handleEnrollStudent handles POST /api/v1/students
func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req enrollStudentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	student, err := s.deps.EnrollStudent.Handle(r.Context(), command.EnrollStudentCommand{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Code:       req.Code,
		Email:      req.Email,
		Phone:      req.Phone,
		GradeLevel: req.GradeLevel,
		Class:      req.Class,
		Status:     req.Status,
		EnrolledOn: req.EnrolledOn,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// handleGetStudent handles GET /api/v1/students/{id}
// Returns the full profile: card, grades, attendance and aggregates.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	summary, err := s.deps.GetStudentSummary.Handle(r.Context(), query.GetStudentSummaryQuery{StudentID: id})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// updateStudentRequest is the body of PATCH /api/v1/students/{id}.
// Absent fields are left unchanged.
type updateStudentRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Code       *string `json:"code"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	GradeLevel *string `json:"grade_level"`
	Class      *string `json:"class"`
	Status     *string `json:"status"`
	PhotoURL   *string `json:"photo_url"`
}

// handleUpdateStudent handles PATCH /api/v1/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req updateStudentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	student, err := s.deps.UpdateStudent.Handle(r.Context(), command.UpdateStudentCommand{
		StudentID:  id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Code:       req.Code,
		Email:      req.Email,
		Phone:      req.Phone,
		GradeLevel: req.GradeLevel,
		Class:      req.Class,
		Status:     req.Status,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// handleRemoveStudent handles DELETE /api/v1/students/{id}
func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.deps.RemoveStudent.Handle(r.Context(), command.RemoveStudentCommand{StudentID: id}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADEBOOK HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListGrades handles GET /api/v1/grades
func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	q := query.ListGradesQuery{
		StudentID: getQueryParamInt(r, "student_id", 0),
		Subject:   getQueryParam(r, "subject", ""),
	}

	grades, err := s.deps.ListGrades.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONList(w, http.StatusOK, grades, len(grades))
}

// recordGradeRequest is the body of POST /api/v1/grades.
type recordGradeRequest struct {
	StudentID int     `json:"student_id"`
	Subject   string  `json:"subject"`
	Semester  string  `json:"semester"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	Date      string  `json:"date"`
}

// handleRecordGrade handles POST /api/v1/grades
func (s *Server) handleRecordGrade(w http.ResponseWriter, r *http.Request) {
	var req recordGradeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	grade, err := s.deps.RecordGrade.Handle(r.Context(), command.RecordGradeCommand{
		StudentID: req.StudentID,
		Subject:   req.Subject,
		Semester:  req.Semester,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		Date:      req.Date,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, grade)
}

// reviseGradeRequest is the body of PATCH /api/v1/grades/{id}.
// Absent fields are left unchanged.
type reviseGradeRequest struct {
	Subject  *string  `json:"subject"`
	Semester *string  `json:"semester"`
	Score    *float64 `json:"score"`
	MaxScore *float64 `json:"max_score"`
	Date     *string  `json:"date"`
}

// handleReviseGrade handles PATCH /api/v1/grades/{id}
func (s *Server) handleReviseGrade(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req reviseGradeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	grade, err := s.deps.ReviseGrade.Handle(r.Context(), command.ReviseGradeCommand{
		GradeID:  id,
		Subject:  req.Subject,
		Semester: req.Semester,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Date:     req.Date,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grade)
}

// handleDeleteGrade handles DELETE /api/v1/grades/{id}
func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.deps.DeleteGrade.Handle(r.Context(), command.DeleteGradeCommand{GradeID: id}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListAttendance handles GET /api/v1/attendance
func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	q := query.ListAttendanceQuery{
		StudentID: getQueryParamInt(r, "student_id", 0),
		Date:      getQueryParam(r, "date", ""),
	}

	records, err := s.deps.ListAttendance.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONList(w, http.StatusOK, records, len(records))
}

// markAttendanceRequest is the body of POST /api/v1/attendance.
type markAttendanceRequest struct {
	StudentID int    `json:"student_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// handleMarkAttendance handles POST /api/v1/attendance
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := s.deps.MarkAttendance.Handle(r.Context(), command.MarkAttendanceCommand{
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// cycleAttendanceRequest is the body of POST /api/v1/attendance/cycle.
type cycleAttendanceRequest struct {
	StudentID int    `json:"student_id"`
	Date      string `json:"date"`
}

// handleCycleAttendance handles POST /api/v1/attendance/cycle
// One call is one click on the attendance grid cell: the record
// advances to the next status in the cycle.
func (s *Server) handleCycleAttendance(w http.ResponseWriter, r *http.Request) {
	var req cycleAttendanceRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	record, err := s.deps.CycleAttendance.Handle(r.Context(), command.CycleAttendanceCommand{
		StudentID: req.StudentID,
		Date:      req.Date,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleClearAttendance handles DELETE /api/v1/attendance/{id}
func (s *Server) handleClearAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.deps.ClearAttendance.Handle(r.Context(), command.ClearAttendanceCommand{RecordID: id}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleWeeklyAttendance handles GET /api/v1/attendance/week
func (s *Server) handleWeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	rollup, err := s.deps.GetWeeklyAttendance.Handle(r.Context(), query.GetWeeklyAttendanceQuery{
		Anchor: getQueryParam(r, "anchor", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rollup)
}

// handleDaySummary handles GET /api/v1/attendance/day
func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.GetDaySummary.Handle(r.Context(), query.GetDaySummaryQuery{
		Date: getQueryParam(r, "date", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPARTMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListDepartments handles GET /api/v1/departments
func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.deps.ListDepartments.Handle(r.Context(), query.ListDepartmentsQuery{
		Search: getQueryParam(r, "q", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONList(w, http.StatusOK, departments, len(departments))
}

// departmentRequest is the body of POST /api/v1/departments.
type departmentRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Phone       string   `json:"phone"`
	Tags        []string `json:"tags"`
}

// handleCreateDepartment handles POST /api/v1/departments
func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	dept, err := s.deps.Departments.Create(r.Context(), command.CreateDepartmentCommand{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		Tags:        req.Tags,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dept)
}

// updateDepartmentRequest is the body of PATCH /api/v1/departments/{id}.
// Absent fields are left unchanged.
type updateDepartmentRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Phone       *string   `json:"phone"`
	Tags        *[]string `json:"tags"`
}

// handleUpdateDepartment handles PATCH /api/v1/departments/{id}
func (s *Server) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req updateDepartmentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	dept, err := s.deps.Departments.Update(r.Context(), command.UpdateDepartmentCommand{
		DepartmentID: id,
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Phone:        req.Phone,
		Tags:         req.Tags,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dept)
}

// handleDeleteDepartment handles DELETE /api/v1/departments/{id}
func (s *Server) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.deps.Departments.Delete(r.Context(), command.DeleteDepartmentCommand{DepartmentID: id}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REPORT & DASHBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleDashboard handles GET /api/v1/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.GetDashboard.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handlePerformanceReport handles GET /api/v1/reports/performance
func (s *Server) handlePerformanceReport(w http.ResponseWriter, r *http.Request) {
	q := query.GetReportQuery{
		Class:      getQueryParam(r, "class", ""),
		GradeLevel: getQueryParam(r, "grade_level", ""),
		Status:     getQueryParam(r, "status", ""),
		Range:      query.DateRange(getQueryParam(r, "range", "")),
	}

	view, err := s.deps.GetReport.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleRecentActivity handles GET /api/v1/activity
func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.GetRecentActivity.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONList(w, http.StatusOK, entries, len(entries))
}
