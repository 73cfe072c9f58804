package controllers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"hackathon-portal/driver"
	"hackathon-portal/models"
	"hackathon-portal/utils"

	"github.com/sirupsen/logrus"
)

type AttendanceController struct{}

// VerifyQR resolves a scanned payload to a registration and returns the team
// summary for the check-in desk. Teams that have not completed payment are
// rejected before any team data is returned.
func (ac *AttendanceController) VerifyQR(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			QRData string `json:"qrData"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.QRData == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "QR data is required"})
			return
		}
		defer r.Body.Close()

		registrationID, ok := utils.ExtractRegistrationID(body.QRData)
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Could not extract registration ID from QR code. Please check QR format."})
			return
		}
		logrus.WithField("id", registrationID).Info("QR payload resolved")

		regs := store.Load()
		idx := findRegistration(regs, registrationID)
		if idx < 0 {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Kind: models.KindNotFound, Message: "Registration not found with ID: " + registrationID})
			return
		}
		reg := regs[idx]

		if !reg.Completed() {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindState, Message: "Payment not completed for this registration"})
			return
		}

		data := map[string]interface{}{
			"registrationId":   reg.CanonicalID(),
			"teamName":         reg.TeamName,
			"teamLeaderName":   reg.TeamLeaderName,
			"teamMembers":      reg.TeamMembers,
			"memberCount":      len(reg.TeamMembers),
			"attendanceMarked": reg.AttendanceMarked(),
		}
		if reg.Attendance != nil {
			data["markedAt"] = reg.Attendance.MarkedAt
			data["markedBy"] = reg.Attendance.MarkedBy
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: data})
	}
}

// MarkAttendance flips a team's attendance flag exactly once. A second call
// is an error and leaves the original mark untouched.
func (ac *AttendanceController) MarkAttendance(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RegistrationID string `json:"registrationId"`
			MarkedBy       string `json:"markedBy"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RegistrationID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Registration ID is required"})
			return
		}
		defer r.Body.Close()

		markedBy := body.MarkedBy
		if markedBy == "" {
			markedBy = "Admin"
		}

		var marked models.Registration
		err := store.Update(func(regs []models.Registration) ([]models.Registration, error) {
			idx := findRegistration(regs, body.RegistrationID)
			if idx < 0 {
				return nil, errNotFound
			}
			if regs[idx].AttendanceMarked() {
				return nil, errAlreadyMarked
			}
			regs[idx].Attendance = &models.Attendance{
				Marked:   true,
				MarkedAt: models.NowStamp(),
				MarkedBy: markedBy,
			}
			marked = regs[idx]
			return regs, nil
		})
		if errors.Is(err, errNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Kind: models.KindNotFound, Message: "Registration not found"})
			return
		}
		if errors.Is(err, errAlreadyMarked) {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindState, Message: "Attendance already marked"})
			return
		}
		if err != nil {
			logrus.WithError(err).Error("Failed to mark attendance")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to mark attendance"})
			return
		}

		logrus.WithFields(logrus.Fields{"id": marked.CanonicalID(), "by": markedBy}).Info("Attendance marked")

		utils.ResponseJSON(w, models.Response{
			Success: true,
			Message: "Attendance marked successfully",
			Data: map[string]interface{}{
				"teamName": marked.TeamName,
				"markedAt": marked.Attendance.MarkedAt,
				"markedBy": marked.Attendance.MarkedBy,
			},
		})
	}
}

// Stats reports check-in progress over completed teams.
func (ac *AttendanceController) Stats(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stats models.AttendanceStats
		for _, reg := range store.Load() {
			if !reg.Completed() {
				continue
			}
			stats.TotalTeams++
			stats.TotalParticipants += len(reg.TeamMembers)
			if reg.AttendanceMarked() {
				stats.AttendanceMarked++
			}
		}
		stats.AttendancePending = stats.TotalTeams - stats.AttendanceMarked
		if stats.TotalTeams > 0 {
			stats.AttendancePercentage = int(math.Round(float64(stats.AttendanceMarked) / float64(stats.TotalTeams) * 100))
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: stats})
	}
}

// List returns one row per completed team for the check-in desk.
func (ac *AttendanceController) List(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := []models.AttendanceRow{}
		for _, reg := range store.Load() {
			if !reg.Completed() {
				continue
			}
			row := models.AttendanceRow{
				RegistrationID:   reg.CanonicalID(),
				TeamName:         reg.TeamName,
				TeamLeaderName:   reg.TeamLeaderName,
				MemberCount:      len(reg.TeamMembers),
				AttendanceMarked: reg.AttendanceMarked(),
				RegisteredAt:     reg.Timestamp,
			}
			if reg.Attendance != nil {
				row.MarkedAt = reg.Attendance.MarkedAt
				row.MarkedBy = reg.Attendance.MarkedBy
			}
			rows = append(rows, row)
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: rows})
	}
}
