package patient

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/retention"
	"github.com/hitecare/carehome-api/internal/session"
	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/logger"
	"github.com/hitecare/carehome-api/pkg/metrics"
)

type fakeRepo struct {
	records    map[int64]*model.Patient
	nextID     int64
	purgeCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[int64]*model.Patient), nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, p *model.Patient) error {
	p.ID = f.nextID
	f.nextID++
	stored := *p
	f.records[p.ID] = &stored
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient")
	}
	copy := *p
	return &copy, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.records {
		if p.Active() {
			copy := *p
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *model.Patient) error {
	if _, ok := f.records[p.ID]; !ok {
		return apperrors.NewNotFound("patient")
	}
	stored := *p
	f.records[p.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.records[id]; !ok {
		return apperrors.NewNotFound("patient")
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) PurgeExpired(_ context.Context) (int64, error) {
	f.purgeCalls++
	var removed int64
	now := time.Now()
	for id, p := range f.records {
		if retention.PurgeEligible(&p.Retention, now) {
			delete(f.records, id)
			removed++
		}
	}
	return removed, nil
}

var testMetrics = metrics.NewMetrics("patient_service_test")

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, logger.NewLogger(nil), testMetrics)
}

func adminSession() *session.Session {
	return &session.Session{ID: "s1", Principal: session.Principal{UserID: 1, Username: "u.mann", Role: "admin"}}
}

func staffSession() *session.Session {
	return &session.Session{ID: "s2", Principal: session.Principal{UserID: 2, Username: "a.suarez", Role: "staff"}}
}

func createRequest() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		FirstName:   "Ahmet",
		Surname:     "Yilmaz",
		DateOfBirth: "1941-02-22",
		CareLevel:   "3",
		RoomNumber:  "013",
	}
}

func TestCreatePatient(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	p, err := svc.CreatePatient(context.Background(), adminSession(), createRequest())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.Nil(t, p.ArchiveDate)
	assert.Nil(t, p.DeletionDate)

	listed, err := svc.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Yilmaz", listed[0].Surname)
}

func TestCreatePatientRejectsNonAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreatePatient(context.Background(), staffSession(), createRequest())
	assert.True(t, apperrors.IsAuthorization(err))
	assert.Empty(t, repo.records, "nothing may reach the store")
}

func TestCreatePatientValidatesBeforeStore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	req := createRequest()
	req.DateOfBirth = "22.02.1941"
	_, err := svc.CreatePatient(context.Background(), adminSession(), req)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, repo.records)
}

func TestUpdatePatientKeepsRetentionAndSetsChangedBy(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, adminSession(), createRequest())
	require.NoError(t, err)

	req := &model.UpdatePatientRequest{
		FirstName:   "Ahmet",
		Surname:     "Yilmaz",
		DateOfBirth: "1941-02-22",
		CareLevel:   "4",
		RoomNumber:  "102",
	}
	updated, err := svc.UpdatePatient(ctx, adminSession(), p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "4", updated.CareLevel)
	assert.Equal(t, "102", updated.RoomNumber)
	require.NotNil(t, updated.ChangedBy)
	assert.Equal(t, "u.mann", *updated.ChangedBy)
	assert.Equal(t, model.StatusActive, updated.Status)
	assert.Nil(t, updated.DeletionDate)
}

func TestUpdatePatientRejectsNonAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, adminSession(), createRequest())
	require.NoError(t, err)

	req := &model.UpdatePatientRequest{
		FirstName:   "X",
		Surname:     "Y",
		DateOfBirth: "1941-02-22",
		CareLevel:   "1",
		RoomNumber:  "001",
	}
	_, err = svc.UpdatePatient(ctx, staffSession(), p.ID, req)
	assert.True(t, apperrors.IsAuthorization(err))

	stored, _ := repo.Get(ctx, p.ID)
	assert.Equal(t, "Ahmet", stored.FirstName, "stored state unchanged")
}

func TestMarkPatientForDeletion(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, adminSession(), createRequest())
	require.NoError(t, err)

	marked, err := svc.MarkPatientForDeletion(ctx, adminSession(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, marked.Status)
	require.NotNil(t, marked.ArchiveDate)
	require.NotNil(t, marked.DeletionDate)
	assert.Equal(t, marked.ArchiveDate.AddDate(retention.WindowYears, 0, 0), marked.DeletionDate.Time)
	require.NotNil(t, marked.DeletedBy)
	assert.Equal(t, "u.mann", *marked.DeletedBy)

	listed, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed, "marked record leaves the listing")

	got, err := svc.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, got.Status, "still addressable by id")
}

func TestMarkPatientForDeletionRejectsNonAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, adminSession(), createRequest())
	require.NoError(t, err)

	_, err = svc.MarkPatientForDeletion(ctx, staffSession(), p.ID)
	assert.True(t, apperrors.IsAuthorization(err))

	stored, _ := repo.Get(ctx, p.ID)
	assert.Equal(t, model.StatusActive, stored.Status)
}

func TestListPatientsSweepsExpiredFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.CreatePatient(ctx, adminSession(), createRequest())
	require.NoError(t, err)
	_, err = svc.MarkPatientForDeletion(ctx, adminSession(), p.ID)
	require.NoError(t, err)

	// Force the window to have elapsed yesterday.
	stored := repo.records[p.ID]
	expired := model.NewDate(time.Now().AddDate(0, 0, -1))
	stored.DeletionDate = &expired

	listed, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Positive(t, repo.purgeCalls)

	_, err = svc.GetPatient(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err), "purged record is gone for good")
}
