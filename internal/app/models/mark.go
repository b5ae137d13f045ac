package models

// Mark is a subject result for a student in a semester.
type Mark struct {
	ID            int64   `json:"mark_id" db:"mark_id"`
	StudentID     int64   `json:"student_id" db:"student_id" validate:"gt=0"`
	CourseID      int64   `json:"course_id" db:"course_id" validate:"gt=0"`
	SubjectName   string  `json:"subject_name" db:"subject_name" validate:"notblank,max=100"`
	Semester      int     `json:"semester" db:"semester" validate:"gt=0"`
	MarksObtained float64 `json:"marks_obtained" db:"marks_obtained" validate:"gte=0,ltefield=MaxMarks"`
	MaxMarks      float64 `json:"max_marks" db:"max_marks" validate:"gt=0"`
	Grade         string  `json:"grade" db:"grade" validate:"omitempty,max=3"`
}
