package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Schema lists the columns one import kind reads.
type Schema struct {
	Kind           model.ImportKind
	Required       []string
	Optional       []string
	MissingMessage string
}

var Schemas = map[model.ImportKind]Schema{
	model.ImportStudents: {
		Kind:           model.ImportStudents,
		Required:       []string{"StudentName", "AdmissionNumber", "ParentEmail", "ParentName"},
		Optional:       []string{"ParentPhone", "Occupation", "ClassName", "DOB", "Gender"},
		MissingMessage: "Missing required fields: StudentName, AdmissionNumber, ParentEmail, ParentName",
	},
	model.ImportAttendance: {
		Kind:           model.ImportAttendance,
		Required:       []string{"AdmissionNumber", "Date", "Status"},
		Optional:       []string{"Remarks"},
		MissingMessage: "Missing AdmissionNumber, Date, or Status",
	},
	model.ImportExams: {
		Kind:           model.ImportExams,
		Required:       []string{"Name", "Type", "StartDate"},
		Optional:       []string{"EndDate", "ClassName"},
		MissingMessage: "Missing Name, Type, or StartDate",
	},
	model.ImportExamResults: {
		Kind:           model.ImportExamResults,
		Required:       []string{"ExamName", "AdmissionNumber", "SubjectCode", "Marks", "TotalMarks"},
		Optional:       []string{"Grade", "Remarks"},
		MissingMessage: "Missing ExamName, AdmissionNumber, SubjectCode, Marks, TotalMarks",
	},
}

func (s Schema) checkRequired(row model.ImportRow) error {
	for _, col := range s.Required {
		if row.Get(col) == "" {
			return errors.NewRowError(row.Number, "%s", s.MissingMessage)
		}
	}
	return nil
}

// RowMapper turns decoded rows into typed rows for each import kind.
type RowMapper struct {
	validator *Validator
}

func NewRowMapper() *RowMapper {
	return &RowMapper{validator: NewValidator()}
}

func (m *RowMapper) check(number int, typed interface{}) error {
	if err := m.validator.Validate(typed); err != nil {
		return errors.NewRowError(number, "%s", Message(err))
	}
	return nil
}

func (m *RowMapper) StudentParent(row model.ImportRow) (model.StudentParentRow, error) {
	if err := Schemas[model.ImportStudents].checkRequired(row); err != nil {
		return model.StudentParentRow{}, err
	}

	typed := model.StudentParentRow{
		Number:          row.Number,
		StudentName:     row.Get("StudentName"),
		AdmissionNumber: row.Get("AdmissionNumber"),
		ParentEmail:     strings.ToLower(row.Get("ParentEmail")),
		ParentName:      row.Get("ParentName"),
		ParentPhone:     row.Get("ParentPhone"),
		Occupation:      row.Get("Occupation"),
		ClassName:       row.Get("ClassName"),
		Gender:          row.Get("Gender"),
	}

	if raw := row.Get("DOB"); raw != "" {
		dob, err := ParseDate(raw)
		if err != nil {
			return model.StudentParentRow{}, errors.NewRowError(row.Number, "Invalid DOB %q", raw)
		}
		typed.DOB = &dob
	}

	return typed, m.check(row.Number, typed)
}

func (m *RowMapper) Attendance(row model.ImportRow) (model.AttendanceRow, error) {
	if err := Schemas[model.ImportAttendance].checkRequired(row); err != nil {
		return model.AttendanceRow{}, err
	}

	date, err := ParseDate(row.Get("Date"))
	if err != nil {
		return model.AttendanceRow{}, errors.NewRowError(row.Number, "Invalid Date %q", row.Get("Date"))
	}

	typed := model.AttendanceRow{
		Number:          row.Number,
		AdmissionNumber: row.Get("AdmissionNumber"),
		Date:            date,
		Status:          model.AttendanceStatus(strings.ToUpper(row.Get("Status"))),
		Remarks:         row.Get("Remarks"),
	}

	return typed, m.check(row.Number, typed)
}

func (m *RowMapper) Exam(row model.ImportRow) (model.ExamRow, error) {
	if err := Schemas[model.ImportExams].checkRequired(row); err != nil {
		return model.ExamRow{}, err
	}

	start, err := ParseDate(row.Get("StartDate"))
	if err != nil {
		return model.ExamRow{}, errors.NewRowError(row.Number, "Invalid StartDate %q", row.Get("StartDate"))
	}

	typed := model.ExamRow{
		Number:    row.Number,
		Name:      row.Get("Name"),
		Type:      row.Get("Type"),
		StartDate: start,
		ClassName: row.Get("ClassName"),
	}

	if raw := row.Get("EndDate"); raw != "" {
		end, err := ParseDate(raw)
		if err != nil {
			return model.ExamRow{}, errors.NewRowError(row.Number, "Invalid EndDate %q", raw)
		}
		typed.EndDate = &end
	}

	return typed, m.check(row.Number, typed)
}

func (m *RowMapper) ExamResult(row model.ImportRow) (model.ExamResultRow, error) {
	if err := Schemas[model.ImportExamResults].checkRequired(row); err != nil {
		return model.ExamResultRow{}, err
	}

	marks, err := strconv.ParseFloat(row.Get("Marks"), 64)
	if err != nil {
		return model.ExamResultRow{}, errors.NewRowError(row.Number, "Invalid Marks value: %s", row.Get("Marks"))
	}

	total, err := strconv.ParseFloat(row.Get("TotalMarks"), 64)
	if err != nil {
		return model.ExamResultRow{}, errors.NewRowError(row.Number, "Invalid TotalMarks value: %s", row.Get("TotalMarks"))
	}

	typed := model.ExamResultRow{
		Number:          row.Number,
		ExamName:        row.Get("ExamName"),
		AdmissionNumber: row.Get("AdmissionNumber"),
		SubjectCode:     row.Get("SubjectCode"),
		Marks:           marks,
		TotalMarks:      total,
		Grade:           row.Get("Grade"),
		Remarks:         row.Get("Remarks"),
	}

	return typed, m.check(row.Number, typed)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// ParseDate accepts ISO and common spreadsheet text layouts as well as raw
// Excel serial day numbers. The result is truncated to a UTC calendar day.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial < 1 || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("serial date out of range: %s", raw)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return day(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return day(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date: %s", raw)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
