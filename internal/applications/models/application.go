package models

import "time"

// Application is a submitted passport application.
//
// Invariants:
//   - ID never changes once assigned
//   - Status is one of pending, accepted, rejected
//   - Username is a free-text reference; no account needs to exist
type Application struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Name             string    `json:"name"`
	FatherName       string    `json:"father_name"`
	DateOfBirth      Date      `json:"date_of_birth"`
	PermanentAddress string    `json:"permanent_address"`
	TemporaryAddress string    `json:"temporary_address"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	PAN              string    `json:"pan"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewApplication builds an unsaved application from a validated request. An
// omitted status defaults to pending.
func NewApplication(req *SubmitRequest) (*Application, error) {
	dob, err := ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	status := StatusPending
	if req.Status != "" {
		if status, err = ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}
	return &Application{
		Username:         req.Username,
		Name:             req.Name,
		FatherName:       req.FatherName,
		DateOfBirth:      dob,
		PermanentAddress: req.PermanentAddress,
		TemporaryAddress: req.TemporaryAddress,
		Phone:            req.Phone,
		Email:            req.Email,
		PAN:              req.PAN,
		Status:           status,
	}, nil
}

// ApplicationResponse wraps a single application with a message.
type ApplicationResponse struct {
	Message     string       `json:"message"`
	Application *Application `json:"application"`
}
