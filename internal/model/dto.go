package model

import "time"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID   int64  `json:"user_id"`
	SchoolID *int64 `json:"school_id,omitempty"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// EmailJob is the payload carried on the email queue.
type EmailJob struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Text       string    `json:"text"`
	HTML       string    `json:"html,omitempty"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type EmailRequest struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	SchoolID int64
	UserID   int64
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
