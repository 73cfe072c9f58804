package models

import (
	"strconv"
	"time"
)

// UnitFee is the registration fee per team member in rupees.
const UnitFee = 250

// EmailDomain is the institutional domain every participant email must use.
const EmailDomain = "@klu.ac.in"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"

	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
)

type Member struct {
	Name           string `json:"name" validate:"required"`
	RegisterNumber string `json:"registerNumber" validate:"required"`
	Department     string `json:"department" validate:"required,oneof=CSE ECE IT MECH CIVIL ARC EEE BIOM"`
	Year           string `json:"year" validate:"required,oneof=I II III IV V"`
	Email          string `json:"email" validate:"required,email"`
}

type Payment struct {
	TransactionID  string `json:"transactionId"`
	Amount         int    `json:"amount"`
	ScreenshotPath string `json:"screenshotPath"`
	Timestamp      string `json:"timestamp"`
	Status         string `json:"status"`
	Approved       bool   `json:"approved"`
}

type Attendance struct {
	Marked   bool   `json:"marked"`
	MarkedAt string `json:"markedAt,omitempty"`
	MarkedBy string `json:"markedBy,omitempty"`
}

// Registration is one team's submission plus its payment and attendance
// sub-state. RegistrationID and ID carry the same creation-time value;
// older documents stored it numeric, newer ones as a string, so both fields
// are persisted and lookups accept either.
type Registration struct {
	RegistrationID  int64       `json:"registrationId"`
	ID              string      `json:"id"`
	TeamName        string      `json:"teamName"`
	TeamLeaderName  string      `json:"teamLeaderName"`
	TeamLeaderEmail string      `json:"teamLeaderEmail"`
	TeamMembers     []Member    `json:"teamMembers"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus"`
	Payment         *Payment    `json:"payment,omitempty"`
	Attendance      *Attendance `json:"attendance,omitempty"`
	Timestamp       string      `json:"timestamp"`
}

// CanonicalID returns the string id used for equality lookups.
func (r *Registration) CanonicalID() string {
	if r.RegistrationID != 0 {
		return strconv.FormatInt(r.RegistrationID, 10)
	}
	return r.ID
}

// Completed reports whether payment has been accepted for this team.
func (r *Registration) Completed() bool {
	return r.Status == StatusCompleted || r.PaymentStatus == PaymentCompleted
}

// Pending reports whether the team submitted but has not paid yet.
func (r *Registration) Pending() bool {
	return r.Status == StatusPending || r.PaymentStatus == PaymentPending
}

// Amount is the fee owed for this team.
func (r *Registration) Amount() int {
	return len(r.TeamMembers) * UnitFee
}

// AttendanceMarked reports whether the team has been checked in.
func (r *Registration) AttendanceMarked() bool {
	return r.Attendance != nil && r.Attendance.Marked
}

// RegistrationRequest is the payload for registering a new team.
type RegistrationRequest struct {
	TeamName        string   `json:"teamName" validate:"required"`
	TeamLeaderName  string   `json:"teamLeaderName" validate:"required"`
	TeamLeaderEmail string   `json:"teamLeaderEmail" validate:"required,email"`
	TeamMembers     []Member `json:"teamMembers" validate:"required,min=1,max=4,dive"`
}

// NowStamp is the timestamp format stored on records.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
