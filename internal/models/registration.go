package models

import "time"

// Registration is one submitted registration form.
type Registration struct {
	ID                int64     `json:"_id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Job               string    `json:"job"`
	JobLocation       string    `json:"jobLocation"`
	Address           string    `json:"address"`
	Circle            string    `json:"circle"`
	PaymentID         string    `json:"paymentId"`
	PaymentScreenshot *string   `json:"paymentScreenshot"` // data URL, may be NULL
	SubmittedAt       time.Time `json:"submittedAt"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RegistrationRequest is the POST /api/registration/submit body.
// Required fields are checked after trimming whitespace.
type RegistrationRequest struct {
	Name              string  `json:"name" validate:"required"`
	Phone             string  `json:"phone" validate:"required"`
	Job               string  `json:"job" validate:"required"`
	JobLocation       string  `json:"jobLocation" validate:"required"`
	Address           string  `json:"address" validate:"required"`
	Circle            string  `json:"circle" validate:"required"`
	PaymentID         string  `json:"paymentId" validate:"required"`
	PaymentScreenshot *string `json:"paymentScreenshot,omitempty"`
}

// SubmitResult is what a submission echoes back; never the screenshot.
type SubmitResult struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// DeletedRegistration identifies a row removed by an admin.
type DeletedRegistration struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PaymentID string `json:"paymentId"`
}

// Search field selectors for ListRegistrations.
const (
	SearchByName  = "name"
	SearchByPhone = "phone"
)

// Default pagination.
const (
	DefaultPage     = 1
	DefaultPageSize = 100
)

// ListQuery is the raw admin list request, as received from the query string.
type ListQuery struct {
	Search   string
	SearchBy string
	Circle   string
	DateFrom string
	DateTo   string
	Page     int
	Limit    int
}

// ListResult is one page of registrations plus totals.
type ListResult struct {
	Count int            `json:"count"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Data  []Registration `json:"data"`
}

// CircleCount is one row of the per-circle breakdown.
type CircleCount struct {
	Circle string `json:"_id"`
	Count  int    `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Total    int           `json:"total"`
	Today    int           `json:"today"`
	ByCircle []CircleCount `json:"byCircle"`
}
