package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hackathon-portal/driver"
	"hackathon-portal/models"
	"hackathon-portal/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type RegistrationController struct{}

// Register validates a team submission, rejects collisions with completed
// registrations, supersedes the leader's previous pending attempt and
// persists the new record as pending.
func (rc *RegistrationController) Register(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegistrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Invalid request body"})
			return
		}
		defer r.Body.Close()

		if errs := utils.ValidateRegistration(req); len(errs) > 0 {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: strings.Join(errs, "; ")})
			return
		}

		var created models.Registration
		err := store.Update(func(regs []models.Registration) ([]models.Registration, error) {
			if collidesWithCompleted(regs, req) {
				return nil, errConflict
			}

			// Assign the id against the pre-supersede collection so a
			// same-millisecond resubmission cannot reuse the id it replaces.
			id := nextRegistrationID(regs)

			// A leader resubmitting over an unpaid attempt abandons it:
			// drop exactly their pending record(s), nothing else.
			kept := regs[:0]
			for _, reg := range regs {
				if reg.Pending() && reg.TeamLeaderEmail == req.TeamLeaderEmail {
					logrus.WithField("id", reg.CanonicalID()).Info("Superseding pending registration")
					continue
				}
				kept = append(kept, reg)
			}
			created = models.Registration{
				RegistrationID:  id,
				ID:              strconv.FormatInt(id, 10),
				TeamName:        req.TeamName,
				TeamLeaderName:  req.TeamLeaderName,
				TeamLeaderEmail: req.TeamLeaderEmail,
				TeamMembers:     req.TeamMembers,
				Status:          models.StatusPending,
				PaymentStatus:   models.PaymentPending,
				Timestamp:       models.NowStamp(),
			}
			return append(kept, created), nil
		})
		if errors.Is(err, errConflict) {
			utils.RespondWithError(w, http.StatusConflict, models.Error{Kind: models.KindConflict, Message: "One or more team members have already completed registration and payment"})
			return
		}
		if err != nil {
			logrus.WithError(err).Error("Failed to save registration")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to save registration"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"id":   created.ID,
			"team": created.TeamName,
			"size": len(created.TeamMembers),
		}).Info("Registration saved")

		utils.ResponseJSONStatus(w, http.StatusCreated, models.Response{
			Success: true,
			Message: "Registration successful",
			Data: map[string]interface{}{
				"registrationId": created.RegistrationID,
				"teamName":       created.TeamName,
				"teamSize":       len(created.TeamMembers),
				"amount":         created.Amount(),
			},
		})
	}
}

// CheckDuplicate is the pre-submit probe the form uses to tell a user they
// already hold a completed registration.
func (rc *RegistrationController) CheckDuplicate(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email          string `json:"email"`
			RegisterNumber string `json:"registerNumber"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Invalid request body"})
			return
		}
		defer r.Body.Close()

		exists := false
		for _, reg := range store.Load() {
			if !reg.Completed() {
				continue
			}
			if reg.TeamLeaderEmail == body.Email {
				exists = true
				break
			}
			for _, m := range reg.TeamMembers {
				if (body.Email != "" && m.Email == body.Email) ||
					(body.RegisterNumber != "" && m.RegisterNumber == body.RegisterNumber) {
					exists = true
					break
				}
			}
			if exists {
				break
			}
		}

		message := "User can register"
		if exists {
			message = "User already registered with completed payment"
		}
		utils.ResponseJSON(w, models.Response{
			Success: true,
			Message: message,
			Data:    map[string]bool{"exists": exists},
		})
	}
}

// GetByID returns one registration record.
func (rc *RegistrationController) GetByID(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		regs := store.Load()
		idx := findRegistration(regs, id)
		if idx < 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Kind: models.KindNotFound, Message: "Registration not found"})
			return
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: regs[idx]})
	}
}

// collidesWithCompleted applies the duplicate-guard: any leader or member
// email, or any member register number, shared with a completed record
// blocks the submission. Leader and member identities are checked across
// each other, not just positionally.
func collidesWithCompleted(regs []models.Registration, req models.RegistrationRequest) bool {
	newEmails := map[string]bool{req.TeamLeaderEmail: true}
	newRegNos := make(map[string]bool)
	for _, m := range req.TeamMembers {
		newEmails[m.Email] = true
		newRegNos[m.RegisterNumber] = true
	}

	for _, reg := range regs {
		if !reg.Completed() {
			continue
		}
		if newEmails[reg.TeamLeaderEmail] {
			return true
		}
		for _, m := range reg.TeamMembers {
			if newEmails[m.Email] || newRegNos[m.RegisterNumber] {
				return true
			}
		}
	}
	return false
}

// nextRegistrationID assigns a creation-time millisecond id, bumping forward
// when two submissions land on the same tick.
func nextRegistrationID(regs []models.Registration) int64 {
	id := time.Now().UnixMilli()
	for {
		taken := false
		for i := range regs {
			if regs[i].RegistrationID == id || regs[i].ID == strconv.FormatInt(id, 10) {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}
