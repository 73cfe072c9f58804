package utils

import (
	"fmt"
	"strings"

	"hackathon-portal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HasInstitutionalDomain reports whether an email belongs to the college
// domain all participants must register with.
func HasInstitutionalDomain(email string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), models.EmailDomain)
}

// ValidateRegistration checks a submitted team and returns every problem
// found. Field-level rules (required, enums, team size) run through the
// struct validator; domain and in-team uniqueness rules are cross checks.
func ValidateRegistration(req models.RegistrationRequest) []string {
	var errs []string

	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []string{"Invalid registration payload"}
		}
		for _, fe := range verrs {
			errs = append(errs, fieldMessage(fe))
		}
	}

	if req.TeamLeaderEmail != "" && !HasInstitutionalDomain(req.TeamLeaderEmail) {
		errs = append(errs, "Team leader email must be a valid "+models.EmailDomain+" email")
	}

	seenEmails := make(map[string]bool)
	seenRegNos := make(map[string]bool)
	dupEmail, dupRegNo := false, false
	for i, m := range req.TeamMembers {
		if m.Email != "" && !HasInstitutionalDomain(m.Email) {
			errs = append(errs, fmt.Sprintf("Member %d: Email must be a valid %s email", i+1, models.EmailDomain))
		}
		if m.Email != "" {
			if seenEmails[m.Email] {
				dupEmail = true
			}
			seenEmails[m.Email] = true
		}
		if m.RegisterNumber != "" {
			if seenRegNos[m.RegisterNumber] {
				dupRegNo = true
			}
			seenRegNos[m.RegisterNumber] = true
		}
	}
	if dupEmail {
		errs = append(errs, "Duplicate emails found within team members")
	}
	if dupRegNo {
		errs = append(errs, "Duplicate register numbers found within team members")
	}

	return errs
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "RegistrationRequest.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		if fe.Field() == "TeamMembers" {
			return "Team must have 1 to 4 members"
		}
		return field + " is out of range"
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return field + " must be a valid email address"
	}
	return field + " is invalid"
}
