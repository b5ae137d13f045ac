package models

// Faculty represents a faculty of the institution
type Faculty struct {
	ID   int64  `json:"faculty_id" db:"faculty_id"`
	Name string `json:"faculty_name" db:"faculty_name"`
}

// AcademicYear represents a year of study, e.g. "First Year"
type AcademicYear struct {
	ID   int64  `json:"year_id" db:"year_id"`
	Name string `json:"year_name" db:"year_name"`
}

// Course represents a programme offered by a faculty.
type Course struct {
	ID        int64  `json:"course_id" db:"course_id"`
	Name      string `json:"course_name" db:"course_name"`
	FacultyID *int64 `json:"faculty_id,omitempty" db:"faculty_id"` // Nullable
}
