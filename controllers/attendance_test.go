package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hackathon-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyQRRejectsUnresolvablePayload(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	rr := postJSON(ac.VerifyQR(store), "/api/attendance/verify-qr", map[string]string{"qrData": "garbage!!"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindValidation, decodeEnvelope(t, rr).Kind)
}

func TestVerifyQRUnknownRegistration(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	rr := postJSON(ac.VerifyQR(store), "/api/attendance/verify-qr", map[string]string{"qrData": "1729999999999"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVerifyQRBlocksUnpaidTeam(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	id := registerTeam(t, store, uniqueTeam(1))

	rr := postJSON(ac.VerifyQR(store), "/api/attendance/verify-qr", map[string]string{"qrData": id})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, models.KindState, env.Kind)
	assert.Empty(t, env.Data, "no team data leaks before payment")
}

func TestVerifyQRReturnsTeamSummary(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	id := completeTeam(t, store, uniqueTeam(1))

	// The id arrives embedded in a URL, as printed QR codes do.
	rr := postJSON(ac.VerifyQR(store), "/api/attendance/verify-qr",
		map[string]string{"qrData": "https://portal.example.com/checkin?id=" + id})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var data struct {
		RegistrationID   string `json:"registrationId"`
		TeamName         string `json:"teamName"`
		MemberCount      int    `json:"memberCount"`
		AttendanceMarked bool   `json:"attendanceMarked"`
	}
	env := decodeEnvelope(t, rr)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.RegistrationID)
	assert.Equal(t, "team-1", data.TeamName)
	assert.Equal(t, 2, data.MemberCount)
	assert.False(t, data.AttendanceMarked)
}

func TestMarkAttendanceExactlyOnce(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	id := completeTeam(t, store, uniqueTeam(1))

	rr := postJSON(ac.MarkAttendance(store), "/api/attendance/mark-attendance",
		map[string]string{"registrationId": id, "markedBy": "Gate A"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	regs := store.Load()
	require.NotNil(t, regs[0].Attendance)
	firstMarkedAt := regs[0].Attendance.MarkedAt
	assert.True(t, regs[0].Attendance.Marked)
	assert.Equal(t, "Gate A", regs[0].Attendance.MarkedBy)

	// Second call is refused, not absorbed.
	rr = postJSON(ac.MarkAttendance(store), "/api/attendance/mark-attendance",
		map[string]string{"registrationId": id, "markedBy": "Gate B"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.KindState, decodeEnvelope(t, rr).Kind)

	regs = store.Load()
	assert.Equal(t, firstMarkedAt, regs[0].Attendance.MarkedAt, "first mark must survive")
	assert.Equal(t, "Gate A", regs[0].Attendance.MarkedBy)
}

func TestMarkAttendanceDefaultsMarker(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	id := completeTeam(t, store, uniqueTeam(1))

	rr := postJSON(ac.MarkAttendance(store), "/api/attendance/mark-attendance",
		map[string]string{"registrationId": id})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Admin", store.Load()[0].Attendance.MarkedBy)
}

func TestMarkAttendanceUnknownRegistration(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}
	rr := postJSON(ac.MarkAttendance(store), "/api/attendance/mark-attendance",
		map[string]string{"registrationId": "1729999999999"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAttendanceStatsAndList(t *testing.T) {
	store := newTestStore(t)
	ac := AttendanceController{}

	firstID := completeTeam(t, store, uniqueTeam(1))
	completeTeam(t, store, uniqueTeam(2))
	registerTeam(t, store, uniqueTeam(3)) // pending, excluded

	rr := postJSON(ac.MarkAttendance(store), "/api/attendance/mark-attendance",
		map[string]string{"registrationId": firstID})
	require.Equal(t, http.StatusOK, rr.Code)

	statsRR := httptest.NewRecorder()
	ac.Stats(store)(statsRR, httptest.NewRequest(http.MethodGet, "/api/attendance/stats", nil))
	require.Equal(t, http.StatusOK, statsRR.Code)

	var stats models.AttendanceStats
	env := decodeEnvelope(t, statsRR)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.TotalTeams)
	assert.Equal(t, 4, stats.TotalParticipants)
	assert.Equal(t, 1, stats.AttendanceMarked)
	assert.Equal(t, 1, stats.AttendancePending)
	assert.Equal(t, 50, stats.AttendancePercentage)

	listRR := httptest.NewRecorder()
	ac.List(store)(listRR, httptest.NewRequest(http.MethodGet, "/api/attendance/list", nil))
	var rows []models.AttendanceRow
	env = decodeEnvelope(t, listRR)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2, "pending teams never reach the check-in list")
}
