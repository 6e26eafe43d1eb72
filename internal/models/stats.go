package models

// AdminStats are the platform-wide counts shown on the admin dashboard.
type AdminStats struct {
	TotalStudents   int `json:"total_students"`
	TotalTeachers   int `json:"total_teachers"`
	TotalSubjects   int `json:"total_subjects"`
	PendingRequests int `json:"pending_requests"`
}

// TeacherStats are the per-teacher workload counts.
type TeacherStats struct {
	TotalCourses  int `json:"total_courses"`
	TotalStudents int `json:"total_students"`
}
