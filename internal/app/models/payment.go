package models

// Payment is a fee payment. Payments are never updated once recorded.
type Payment struct {
	ID            int64   `json:"payment_id" db:"payment_id"`
	StudentID     int64   `json:"student_id" db:"student_id" validate:"gt=0"`
	AmountPaid    float64 `json:"amount_paid" db:"amount_paid" validate:"gt=0"`
	PaymentDate   string  `json:"payment_date" db:"payment_date" validate:"omitempty,isodate"`
	PaymentType   *string `json:"payment_type,omitempty" db:"payment_type" validate:"omitempty,max=50"`
	ReceiptNumber string  `json:"receipt_number" db:"receipt_number" validate:"omitempty,max=64"`
	Description   *string `json:"description,omitempty" db:"description"`
}

// Receipt is a payment joined with the paying student's details.
type Receipt struct {
	Payment
	StudentName string  `json:"student_name" db:"student_name"`
	RollNumber  string  `json:"roll_number" db:"roll_number"`
	CourseName  *string `json:"course_name,omitempty" db:"course_name"`
}
