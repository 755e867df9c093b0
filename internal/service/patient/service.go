package patient

import (
	"context"
	"time"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
	"github.com/hitecare/carehome-api/internal/retention"
	"github.com/hitecare/carehome-api/internal/session"
	apperrors "github.com/hitecare/carehome-api/pkg/errors"
	"github.com/hitecare/carehome-api/pkg/logger"
	"github.com/hitecare/carehome-api/pkg/metrics"
)

type PatientService interface {
	CreatePatient(ctx context.Context, actor *session.Session, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	UpdatePatient(ctx context.Context, actor *session.Session, id int64, req *model.UpdatePatientRequest) (*model.Patient, error)
	MarkPatientForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Patient, error)
}

type Service struct {
	repo    repository.PatientRepository
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.PatientRepository, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, log: log, metrics: m}
}

// Person records are managed by admins only; staff may read them.
func (s *Service) authorize(actor *session.Session) error {
	if !actor.Principal.IsAdmin() {
		s.metrics.MutationsDenied.WithLabelValues("patient").Inc()
		return apperrors.NewAuthorization("only admins may modify patient records")
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, actor *session.Session, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	dob, err := validatePatientFields(req.FirstName, req.Surname, req.DateOfBirth, req.CareLevel, req.RoomNumber)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		DateOfBirth: dob,
		CareLevel:   req.CareLevel,
		RoomNumber:  req.RoomNumber,
		Retention:   model.NewActiveRetention(),
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetPatient resolves a patient regardless of status, so soft-deleted records
// stay addressable until purged.
func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

// ListPatients sweeps expired records first, then returns the active ones.
// The sweep is best-effort: its failure does not block the listing.
func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	if removed, err := s.repo.PurgeExpired(ctx); err != nil {
		s.log.Error(err, "patient purge sweep failed")
	} else if removed > 0 {
		s.metrics.RecordsPurged.WithLabelValues("patient").Add(float64(removed))
		s.log.Info("purged expired patients", "count", removed)
	}
	return s.repo.ListActive(ctx)
}

func (s *Service) UpdatePatient(ctx context.Context, actor *session.Session, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	dob, err := validatePatientFields(req.FirstName, req.Surname, req.DateOfBirth, req.CareLevel, req.RoomNumber)
	if err != nil {
		return nil, err
	}

	// Full-row overwrite keyed by id; the stored retention block is carried
	// over untouched so edits can never flip status or retention dates.
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patient.FirstName = req.FirstName
	patient.Surname = req.Surname
	patient.DateOfBirth = dob
	patient.CareLevel = req.CareLevel
	patient.RoomNumber = req.RoomNumber
	actorName := actor.Principal.Username
	patient.ChangedBy = &actorName

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) MarkPatientForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Patient, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	retention.MarkForDeletion(&patient.Retention, actor.Principal.Username, time.Now())
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.metrics.RecordsMarked.WithLabelValues("patient").Inc()
	s.log.Info("patient marked for deletion",
		"id", patient.ID, "deleted_by", actor.Principal.Username, "deletion_date", patient.DeletionDate.String())
	return patient, nil
}

func validatePatientFields(firstName, surname, dateOfBirth, careLevel, roomNumber string) (model.Date, error) {
	switch {
	case firstName == "":
		return model.Date{}, apperrors.NewValidation("first name is required")
	case surname == "":
		return model.Date{}, apperrors.NewValidation("surname is required")
	case careLevel == "":
		return model.Date{}, apperrors.NewValidation("care level is required")
	case roomNumber == "":
		return model.Date{}, apperrors.NewValidation("room number is required")
	}
	dob, err := model.ParseDate(dateOfBirth)
	if err != nil {
		return model.Date{}, apperrors.NewValidation("date of birth must be a valid YYYY-MM-DD date")
	}
	return dob, nil
}
