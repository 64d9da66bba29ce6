package model

import "time"

// Typed rows produced by the excel schema layer. Number is the reported row
// number of the source sheet row.

type StudentParentRow struct {
	Number          int
	StudentName     string `validate:"required,max=255"`
	AdmissionNumber string `validate:"required,max=64"`
	ParentEmail     string `validate:"required,max=255"`
	ParentName      string `validate:"required,max=255"`
	ParentPhone     string `validate:"max=32"`
	Occupation      string `validate:"max=128"`
	ClassName       string
	DOB             *time.Time
	Gender          string `validate:"max=16"`
}

type AttendanceRow struct {
	Number          int
	AdmissionNumber string           `validate:"required"`
	Date            time.Time        `validate:"required"`
	Status          AttendanceStatus `validate:"required,oneof=PRESENT ABSENT LATE LEAVE"`
	Remarks         string
}

type ExamRow struct {
	Number    int
	Name      string    `validate:"required,max=255"`
	Type      string    `validate:"required,max=64"`
	StartDate time.Time `validate:"required"`
	EndDate   *time.Time
	ClassName string
}

type ExamResultRow struct {
	Number          int
	ExamName        string  `validate:"required"`
	AdmissionNumber string  `validate:"required"`
	SubjectCode     string  `validate:"required"`
	Marks           float64 `validate:"gte=0,ltefield=TotalMarks"`
	TotalMarks      float64 `validate:"gt=0"`
	Grade           string  `validate:"max=8"`
	Remarks         string
}
