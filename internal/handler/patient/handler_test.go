package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitecare/carehome-api/internal/middleware"
	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/session"
	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/validator"
)

type fakeService struct {
	patients map[int64]*model.Patient
	nextID   int64
	denyAll  bool
}

func newFakeService() *fakeService {
	return &fakeService{patients: make(map[int64]*model.Patient), nextID: 1}
}

func (f *fakeService) CreatePatient(_ context.Context, _ *session.Session, req *model.CreatePatientRequest) (*model.Patient, error) {
	if f.denyAll {
		return nil, apperrors.NewAuthorization("only admins may modify patient records")
	}
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewValidation("date of birth must be a valid YYYY-MM-DD date")
	}
	p := &model.Patient{
		ID:          f.nextID,
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		DateOfBirth: dob,
		CareLevel:   req.CareLevel,
		RoomNumber:  req.RoomNumber,
		Retention:   model.NewActiveRetention(),
	}
	f.patients[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeService) GetPatient(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient")
	}
	return p, nil
}

func (f *fakeService) ListPatients(_ context.Context) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeService) UpdatePatient(_ context.Context, _ *session.Session, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient")
	}
	p.FirstName = req.FirstName
	p.Surname = req.Surname
	return p, nil
}

func (f *fakeService) MarkPatientForDeletion(_ context.Context, actor *session.Session, id int64) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient")
	}
	p.Status = model.StatusInactive
	name := actor.Principal.Username
	p.DeletedBy = &name
	return p, nil
}

type fakeResolver struct {
	sessions map[string]*session.Session
}

func (f *fakeResolver) Resolve(token string) (*session.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, apperrors.NewAuthentication("session expired or unknown")
	}
	return s, nil
}

func setupRouter(t *testing.T, svc *fakeService) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	resolver := &fakeResolver{sessions: map[string]*session.Session{
		"admin-token": {ID: "s1", Principal: session.Principal{UserID: 1, Username: "u.mann", Role: model.RoleAdmin}},
	}}

	engine := gin.New()
	group := engine.Group("/api/v1")
	group.Use(middleware.NewAuthMiddleware(resolver).Authenticate())
	NewHandler(svc).RegisterRoutes(group)
	return engine, "admin-token"
}

func doRequest(engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreatePatientEndpoint(t *testing.T) {
	engine, token := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodPost, "/api/v1/patients", token, gin.H{
		"first_name":    "Seppl",
		"surname":       "Herberger",
		"date_of_birth": "1945-12-01",
		"care_level":    "4",
		"room_number":   "202",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string        `json:"status"`
		Data   model.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, model.StatusActive, resp.Data.Status)
}

func TestCreatePatientRejectsBadCareLevel(t *testing.T) {
	engine, token := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodPost, "/api/v1/patients", token, gin.H{
		"first_name":    "Seppl",
		"surname":       "Herberger",
		"date_of_birth": "1945-12-01",
		"care_level":    "9",
		"room_number":   "202",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	engine, _ := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodGet, "/api/v1/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownTokenRejected(t *testing.T) {
	engine, _ := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodGet, "/api/v1/patients", "stale-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPatientNotFound(t *testing.T) {
	engine, token := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodGet, "/api/v1/patients/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPatientBadID(t *testing.T) {
	engine, token := setupRouter(t, newFakeService())

	w := doRequest(engine, http.MethodGet, "/api/v1/patients/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeniedMutationMapsToForbidden(t *testing.T) {
	svc := newFakeService()
	svc.denyAll = true
	engine, token := setupRouter(t, svc)

	w := doRequest(engine, http.MethodPost, "/api/v1/patients", token, gin.H{
		"first_name":    "Seppl",
		"surname":       "Herberger",
		"date_of_birth": "1945-12-01",
		"care_level":    "4",
		"room_number":   "202",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteMarksInsteadOfRemoving(t *testing.T) {
	svc := newFakeService()
	engine, token := setupRouter(t, svc)

	w := doRequest(engine, http.MethodPost, "/api/v1/patients", token, gin.H{
		"first_name":    "Ahmet",
		"surname":       "Yilmaz",
		"date_of_birth": "1941-02-22",
		"care_level":    "3",
		"room_number":   "013",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(engine, http.MethodDelete, "/api/v1/patients/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The row survives the delete, readable with its audit trail.
	w = doRequest(engine, http.MethodGet, "/api/v1/patients/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusInactive, resp.Data.Status)
	require.NotNil(t, resp.Data.DeletedBy)
	assert.Equal(t, "u.mann", *resp.Data.DeletedBy)
}
