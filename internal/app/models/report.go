package models

import (
	"fmt"
	"strings"
)

// ReportType is the closed set of reports the builder knows how to run.
type ReportType string

const (
	ReportFullStudentList   ReportType = "FullStudentList"
	ReportEnrollment        ReportType = "EnrollmentReport"
	ReportPaymentHistory    ReportType = "PaymentHistory"
	ReportStudentsPerCourse ReportType = "StudentsPerCourse"
	ReportFacultySummary    ReportType = "FacultySummary"
	ReportStudentMarks      ReportType = "StudentMarks"
)

// ReportTypes lists every report in menu order.
var ReportTypes = []ReportType{
	ReportFullStudentList,
	ReportEnrollment,
	ReportPaymentHistory,
	ReportStudentsPerCourse,
	ReportFacultySummary,
	ReportStudentMarks,
}

var reportTitles = map[ReportType]string{
	ReportFullStudentList:   "Full Student List",
	ReportEnrollment:        "Enrollment Report",
	ReportPaymentHistory:    "Payment History",
	ReportStudentsPerCourse: "Students per Course",
	ReportFacultySummary:    "Faculty Summary",
	ReportStudentMarks:      "Student Marks",
}

// Title returns the human readable report name.
func (r ReportType) Title() string {
	if t, ok := reportTitles[r]; ok {
		return t
	}
	return string(r)
}

// ParseReportType accepts either the identifier or the title, ignoring case and spaces.
func ParseReportType(s string) (ReportType, error) {
	want := normalizeReportName(s)
	for _, r := range ReportTypes {
		if normalizeReportName(string(r)) == want || normalizeReportName(r.Title()) == want {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

func normalizeReportName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// ReportParams holds the optional filters some reports accept.
type ReportParams struct {
	RollNumber string // StudentMarks (required), PaymentHistory
	Since      string // PaymentHistory, inclusive YYYY-MM-DD
	Until      string // PaymentHistory, inclusive YYYY-MM-DD
}

// TabularResult is the output of a report: ordered headers and rows of
// already formatted values.
type TabularResult struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the result has no data rows.
func (t *TabularResult) Empty() bool {
	return len(t.Rows) == 0
}
