package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"hackathon-portal/driver"
	"hackathon-portal/models"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *driver.Store {
	t.Helper()
	s, err := driver.Connect(t.TempDir())
	require.NoError(t, err)
	return s
}

type envelope struct {
	Success bool            `json:"success"`
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func postJSON(handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func teamMember(name, regNo, email string) models.Member {
	return models.Member{
		Name:           name,
		RegisterNumber: regNo,
		Department:     "CSE",
		Year:           "II",
		Email:          email,
	}
}

func teamRequest(team, leader, leaderEmail string, members ...models.Member) models.RegistrationRequest {
	return models.RegistrationRequest{
		TeamName:        team,
		TeamLeaderName:  leader,
		TeamLeaderEmail: leaderEmail,
		TeamMembers:     members,
	}
}

// registerTeam submits a team and returns the assigned registration id.
func registerTeam(t *testing.T, store *driver.Store, req models.RegistrationRequest) string {
	t.Helper()
	rc := RegistrationController{}
	rr := postJSON(rc.Register(store), "/api/registration/register", req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var data struct {
		RegistrationID int64 `json:"registrationId"`
	}
	env := decodeEnvelope(t, rr)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotZero(t, data.RegistrationID)
	return strconv.FormatInt(data.RegistrationID, 10)
}

// submitProof posts a multipart payment submission for the given id.
func submitProof(t *testing.T, store *driver.Store, regID, fileName string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if regID != "" {
		require.NoError(t, mw.WriteField("registrationId", regID))
	}
	require.NoError(t, mw.WriteField("transactionId", "TXN-TEST-1"))
	if fileName != "" {
		fw, err := mw.CreateFormFile("proof", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/payment/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	pc := PaymentController{}
	pc.Submit(store)(rr, req)
	return rr
}

// completeTeam registers and pays for a team in one step.
func completeTeam(t *testing.T, store *driver.Store, req models.RegistrationRequest) string {
	t.Helper()
	id := registerTeam(t, store, req)
	rr := submitProof(t, store, id, "proof.png")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return id
}

func uniqueTeam(n int) models.RegistrationRequest {
	leaderEmail := fmt.Sprintf("leader%d@klu.ac.in", n)
	return teamRequest(
		fmt.Sprintf("team-%d", n),
		fmt.Sprintf("Leader %d", n),
		leaderEmail,
		teamMember(fmt.Sprintf("Leader %d", n), fmt.Sprintf("99%d01", n), leaderEmail),
		teamMember(fmt.Sprintf("Mate %d", n), fmt.Sprintf("99%d02", n), fmt.Sprintf("mate%d@klu.ac.in", n)),
	)
}
