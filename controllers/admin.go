package controllers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hackathon-portal/driver"
	"hackathon-portal/models"
	"hackathon-portal/utils"

	"github.com/sirupsen/logrus"
)

type AdminController struct{}

// Login validates the admin credential pair and returns a bearer token the
// dashboard can use instead of replaying the password.
func (ad *AdminController) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Kind: models.KindValidation, Message: "Invalid request body"})
			return
		}
		defer r.Body.Close()

		if !utils.CheckAdminCredentials(body.Username, body.Password) {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Kind: models.KindUnauthorized, Message: "Invalid credentials"})
			return
		}

		token, err := utils.GenerateAdminToken(body.Username)
		if err != nil {
			logrus.WithError(err).Error("Failed to issue admin token")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to issue token"})
			return
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: map[string]string{"token": token}})
	}
}

// Stats aggregates the whole collection for the dashboard.
func (ad *AdminController) Stats(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stats models.Stats
		for _, reg := range store.Load() {
			stats.TotalTeams++
			stats.TotalParticipants += len(reg.TeamMembers)
			if reg.Payment != nil {
				stats.TotalRevenue += float64(reg.Payment.Amount)
			}
			if reg.Completed() {
				stats.CompletedTeams++
			} else if reg.Pending() {
				stats.PendingTeams++
			}
		}
		utils.ResponseJSON(w, models.Response{Success: true, Data: stats})
	}
}

// Registrations dumps every record for the dashboard table.
func (ad *AdminController) Registrations(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, models.Response{Success: true, Data: store.Load()})
	}
}

// Export streams the collection as CSV, one row per team member.
func (ad *AdminController) Export(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=registrations_%d.csv", time.Now().UnixMilli()))

		cw := csv.NewWriter(w)
		cw.Write([]string{
			"Registration ID", "Team Name", "Team Leader", "Leader Email",
			"Member Name", "Register Number", "Department", "Year", "Member Email",
			"Status", "Amount", "Attendance", "Registered At",
		})
		for _, reg := range store.Load() {
			amount := ""
			if reg.Payment != nil {
				amount = strconv.Itoa(reg.Payment.Amount)
			}
			attendance := "absent"
			if reg.AttendanceMarked() {
				attendance = "present"
			}
			for _, m := range reg.TeamMembers {
				cw.Write([]string{
					reg.CanonicalID(), reg.TeamName, reg.TeamLeaderName, reg.TeamLeaderEmail,
					m.Name, m.RegisterNumber, m.Department, m.Year, m.Email,
					reg.Status, amount, attendance, reg.Timestamp,
				})
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			logrus.WithError(err).Error("CSV export failed mid-stream")
		}
	}
}

// Backup snapshots the collection document on demand.
func (ad *AdminController) Backup(store *driver.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := store.Backup()
		if err != nil {
			logrus.WithError(err).Error("Backup failed")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Kind: models.KindStorage, Message: "Failed to create backup"})
			return
		}
		utils.ResponseJSON(w, models.Response{Success: true, Message: "Backup created", Data: map[string]string{"file": path}})
	}
}
