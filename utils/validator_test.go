package utils

import (
	"testing"

	"hackathon-portal/models"

	"github.com/stretchr/testify/assert"
)

func member(name, regNo, email string) models.Member {
	return models.Member{
		Name:           name,
		RegisterNumber: regNo,
		Department:     "CSE",
		Year:           "III",
		Email:          email,
	}
}

func validRequest() models.RegistrationRequest {
	return models.RegistrationRequest{
		TeamName:        "Borderland",
		TeamLeaderName:  "Arisu",
		TeamLeaderEmail: "arisu@klu.ac.in",
		TeamMembers: []models.Member{
			member("Arisu", "99210001", "arisu@klu.ac.in"),
			member("Usagi", "99210002", "usagi@klu.ac.in"),
		},
	}
}

func TestValidateRegistration(t *testing.T) {
	t.Run("valid team passes", func(t *testing.T) {
		assert.Empty(t, ValidateRegistration(validRequest()))
	})

	t.Run("missing team name", func(t *testing.T) {
		req := validRequest()
		req.TeamName = ""
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("no members", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers = nil
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("five members is too many", func(t *testing.T) {
		req := validRequest()
		for i := 0; i < 3; i++ {
			req.TeamMembers = append(req.TeamMembers, member("M", "9921100"+string(rune('1'+i)), "m"+string(rune('1'+i))+"@klu.ac.in"))
		}
		assert.Len(t, req.TeamMembers, 5)
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("leader email outside institutional domain", func(t *testing.T) {
		req := validRequest()
		req.TeamLeaderEmail = "arisu@gmail.com"
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("member email outside institutional domain", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers[1].Email = "usagi@gmail.com"
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("invalid department", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers[0].Department = "AI"
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("invalid year", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers[0].Year = "VI"
		assert.NotEmpty(t, ValidateRegistration(req))
	})

	t.Run("duplicate email within team", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers[1].Email = req.TeamMembers[0].Email
		errs := ValidateRegistration(req)
		assert.Contains(t, errs, "Duplicate emails found within team members")
	})

	t.Run("duplicate register number within team", func(t *testing.T) {
		req := validRequest()
		req.TeamMembers[1].RegisterNumber = req.TeamMembers[0].RegisterNumber
		errs := ValidateRegistration(req)
		assert.Contains(t, errs, "Duplicate register numbers found within team members")
	})
}

func TestHasInstitutionalDomain(t *testing.T) {
	assert.True(t, HasInstitutionalDomain("x@klu.ac.in"))
	assert.True(t, HasInstitutionalDomain("  X@KLU.AC.IN "))
	assert.False(t, HasInstitutionalDomain("x@gmail.com"))
	assert.False(t, HasInstitutionalDomain(""))
}
