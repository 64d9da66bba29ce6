package model

import "time"

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
	RoleTeacher     Role = "TEACHER"
	RoleParent      Role = "PARENT"
	RoleStudent     Role = "STUDENT"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	SchoolID     *int64    `json:"school_id,omitempty" db:"school_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Parent struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	SchoolID     int64     `json:"school_id" db:"school_id"`
	GuardianName string    `json:"guardian_name" db:"guardian_name"`
	Occupation   *string   `json:"occupation,omitempty" db:"occupation"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Student struct {
	ID              int64     `json:"id" db:"id"`
	SchoolID        int64     `json:"school_id" db:"school_id"`
	ParentID        *int64    `json:"parent_id,omitempty" db:"parent_id"`
	ClassID         *int64    `json:"class_id,omitempty" db:"class_id"`
	Name            string    `json:"name" db:"name"`
	AdmissionNumber string    `json:"admission_number" db:"admission_number"`
	DOB             time.Time `json:"dob" db:"dob"`
	Gender          string    `json:"gender" db:"gender"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Class struct {
	ID       int64  `json:"id" db:"id"`
	SchoolID int64  `json:"school_id" db:"school_id"`
	Name     string `json:"name" db:"name"`
}

type Subject struct {
	ID       int64  `json:"id" db:"id"`
	SchoolID int64  `json:"school_id" db:"school_id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceLeave   AttendanceStatus = "LEAVE"
)

type Attendance struct {
	ID        int64            `json:"id" db:"id"`
	SchoolID  int64            `json:"school_id" db:"school_id"`
	StudentID int64            `json:"student_id" db:"student_id"`
	Date      time.Time        `json:"date" db:"date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	Remarks   *string          `json:"remarks,omitempty" db:"remarks"`
}

type Exam struct {
	ID        int64      `json:"id" db:"id"`
	SchoolID  int64      `json:"school_id" db:"school_id"`
	ClassID   *int64     `json:"class_id,omitempty" db:"class_id"`
	Name      string     `json:"name" db:"name"`
	ExamType  string     `json:"exam_type" db:"exam_type"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
}

type ExamResult struct {
	ID            int64   `json:"id" db:"id"`
	ExamID        int64   `json:"exam_id" db:"exam_id"`
	StudentID     int64   `json:"student_id" db:"student_id"`
	SubjectID     int64   `json:"subject_id" db:"subject_id"`
	ObtainedMarks float64 `json:"obtained_marks" db:"obtained_marks"`
	TotalMarks    float64 `json:"total_marks" db:"total_marks"`
	Grade         string  `json:"grade" db:"grade"`
	Remarks       string  `json:"remarks" db:"remarks"`
}

type NotificationType string

const (
	NotificationEmail NotificationType = "EMAIL"
	NotificationInApp NotificationType = "IN_APP"
)

type Notification struct {
	ID        int64            `json:"id" db:"id"`
	SchoolID  int64            `json:"school_id" db:"school_id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Status    string           `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
