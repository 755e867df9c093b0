package treatment

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

type TreatmentService interface {
	CreateTreatment(ctx context.Context, actor *session.Session, req *model.CreateTreatmentRequest) (*model.Treatment, error)
	GetTreatment(ctx context.Context, id int64) (*model.Treatment, error)
	ListTreatments(ctx context.Context) ([]*model.Treatment, error)
	ListTreatmentsByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error)
	UpdateTreatment(ctx context.Context, actor *session.Session, id int64, req *model.UpdateTreatmentRequest) (*model.Treatment, error)
	MarkTreatmentForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Treatment, error)
}

type Service struct {
	repo        repository.TreatmentRepository
	patientRepo repository.PatientRepository
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(repo repository.TreatmentRepository, patientRepo repository.PatientRepository,
	log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, log: log, metrics: m}
}

// Treatment mutations are deliberately open to every authenticated user:
// any staff member may record care, only admins manage person records.

func (s *Service) CreateTreatment(ctx context.Context, actor *session.Session, req *model.CreateTreatmentRequest) (*model.Treatment, error) {
	day, err := validateTreatmentFields(req.Date, req.Begin, req.End, req.Description)
	if err != nil {
		return nil, err
	}

	// Resolve the reference up front for a readable error; the foreign key
	// still backs this check in the store.
	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	actorName := actor.Principal.Username
	treatment := &model.Treatment{
		PatientID:   req.PatientID,
		CaregiverID: req.CaregiverID,
		Date:        day,
		Begin:       req.Begin,
		End:         req.End,
		Description: req.Description,
		Remark:      req.Remark,
		Retention:   model.NewActiveRetention(),
	}
	treatment.ChangedBy = &actorName

	if err := s.repo.Create(ctx, treatment); err != nil {
		return nil, err
	}
	return treatment, nil
}

func (s *Service) GetTreatment(ctx context.Context, id int64) (*model.Treatment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context) ([]*model.Treatment, error) {
	s.sweep(ctx)
	return s.repo.ListActive(ctx)
}

func (s *Service) ListTreatmentsByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error) {
	s.sweep(ctx)
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveByPatient(ctx, patientID)
}

func (s *Service) UpdateTreatment(ctx context.Context, actor *session.Session, id int64, req *model.UpdateTreatmentRequest) (*model.Treatment, error) {
	day, err := validateTreatmentFields(req.Date, req.Begin, req.End, req.Description)
	if err != nil {
		return nil, err
	}

	treatment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	treatment.PatientID = req.PatientID
	treatment.CaregiverID = req.CaregiverID
	treatment.Date = day
	treatment.Begin = req.Begin
	treatment.End = req.End
	treatment.Description = req.Description
	treatment.Remark = req.Remark
	actorName := actor.Principal.Username
	treatment.ChangedBy = &actorName

	if err := s.repo.Update(ctx, treatment); err != nil {
		return nil, err
	}
	return treatment, nil
}

func (s *Service) MarkTreatmentForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Treatment, error) {
	treatment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	retention.MarkForDeletion(&treatment.Retention, actor.Principal.Username, time.Now())
	if err := s.repo.Update(ctx, treatment); err != nil {
		return nil, err
	}

	s.metrics.RecordsMarked.WithLabelValues("treatment").Inc()
	s.log.Info("treatment marked for deletion",
		"id", treatment.ID, "deleted_by", actor.Principal.Username, "deletion_date", treatment.DeletionDate.String())
	return treatment, nil
}

func (s *Service) sweep(ctx context.Context) {
	if removed, err := s.repo.PurgeExpired(ctx); err != nil {
		s.log.Error(err, "treatment purge sweep failed")
	} else if removed > 0 {
		s.metrics.RecordsPurged.WithLabelValues("treatment").Add(float64(removed))
		s.log.Info("purged expired treatments", "count", removed)
	}
}

const clockLayout = "15:04"

func validateTreatmentFields(day, begin, end, description string) (model.Date, error) {
	if description == "" {
		return model.Date{}, apperrors.NewValidation("description is required")
	}
	date, err := model.ParseDate(day)
	if err != nil {
		return model.Date{}, apperrors.NewValidation("date must be a valid YYYY-MM-DD date")
	}
	beginAt, err := time.Parse(clockLayout, begin)
	if err != nil {
		return model.Date{}, apperrors.NewValidation("begin must be a valid HH:MM time")
	}
	endAt, err := time.Parse(clockLayout, end)
	if err != nil {
		return model.Date{}, apperrors.NewValidation("end must be a valid HH:MM time")
	}
	if !endAt.After(beginAt) {
		return model.Date{}, apperrors.NewValidation("end must be after begin")
	}
	return date, nil
}
