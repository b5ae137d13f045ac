package models

// EnrollmentStatus is the enrolment state of a student.
type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "active"
	EnrollmentInactive EnrollmentStatus = "inactive"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID                 int64            `json:"student_id" db:"student_id"`
	RollNumber         string           `json:"roll_number" db:"roll_number" validate:"notblank,max=50"`
	UserID             *string          `json:"user_id,omitempty" db:"user_id"`
	Name               string           `json:"name" db:"name" validate:"notblank,max=200"`
	ContactNumber      *string          `json:"contact_number,omitempty" db:"contact_number" validate:"omitempty,max=20"`
	Email              *string          `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	Address            *string          `json:"address,omitempty" db:"address"`
	AadhaarNo          *string          `json:"aadhaar_no,omitempty" db:"aadhaar_no" validate:"omitempty,numeric,len=12"`
	DateOfBirth        *string          `json:"date_of_birth,omitempty" db:"date_of_birth" validate:"omitempty,isodate"`
	Gender             *string          `json:"gender,omitempty" db:"gender" validate:"omitempty,oneof=Male Female Other"`
	TenthPercent       *float64         `json:"tenth_percent,omitempty" db:"tenth_percent" validate:"omitnil,gte=0,lte=100"`
	TwelfthPercent     *float64         `json:"twelfth_percent,omitempty" db:"twelfth_percent" validate:"omitnil,gte=0,lte=100"`
	BloodGroup         *string          `json:"blood_group,omitempty" db:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	MotherName         *string          `json:"mother_name,omitempty" db:"mother_name"`
	EnrollmentStatus   EnrollmentStatus `json:"enrollment_status" db:"enrollment_status" validate:"oneof=active inactive"`
	EnrollmentDate     string           `json:"enrollment_date" db:"enrollment_date" validate:"isodate"`
	CourseID           *int64           `json:"course_id,omitempty" db:"course_id" validate:"omitnil,gt=0"`
	AcademicYearID     *int64           `json:"academic_year_id,omitempty" db:"academic_year_id" validate:"omitnil,gt=0"`
	ProfilePicturePath *string          `json:"profile_picture_path,omitempty" db:"profile_picture_path"`
	Deleted            bool             `json:"deleted" db:"deleted"`
}

// StudentUpdate carries a partial update. Nil fields are left untouched;
// a pointer to an empty string clears an optional text column.
type StudentUpdate struct {
	RollNumber         *string           `json:"roll_number" validate:"omitnil,notblank,max=50"`
	UserID             *string           `json:"user_id"`
	Name               *string           `json:"name" validate:"omitnil,notblank,max=200"`
	ContactNumber      *string           `json:"contact_number" validate:"omitempty,max=20"`
	Email              *string           `json:"email" validate:"omitempty,email"`
	Address            *string           `json:"address"`
	AadhaarNo          *string           `json:"aadhaar_no" validate:"omitempty,numeric,len=12"`
	DateOfBirth        *string           `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender             *string           `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	TenthPercent       *float64          `json:"tenth_percent" validate:"omitnil,gte=0,lte=100"`
	TwelfthPercent     *float64          `json:"twelfth_percent" validate:"omitnil,gte=0,lte=100"`
	BloodGroup         *string           `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	MotherName         *string           `json:"mother_name"`
	EnrollmentStatus   *EnrollmentStatus `json:"enrollment_status" validate:"omitnil,oneof=active inactive"`
	EnrollmentDate     *string           `json:"enrollment_date" validate:"omitnil,isodate"`
	CourseID           *int64            `json:"course_id" validate:"omitnil,gt=0"`
	AcademicYearID     *int64            `json:"academic_year_id" validate:"omitnil,gt=0"`
	ProfilePicturePath *string           `json:"profile_picture_path"`
}

// SearchField names a column students can be searched by.
type SearchField string

const (
	SearchByName       SearchField = "name"
	SearchByRollNumber SearchField = "roll_number"
	SearchByCourse     SearchField = "course"
	SearchByEmail      SearchField = "email"
)

// SearchFields lists every supported search field.
var SearchFields = []SearchField{SearchByName, SearchByRollNumber, SearchByCourse, SearchByEmail}
