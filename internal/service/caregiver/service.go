package caregiver

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

type CaregiverService interface {
	CreateCaregiver(ctx context.Context, actor *session.Session, req *model.CreateCaregiverRequest) (*model.Caregiver, error)
	GetCaregiver(ctx context.Context, id int64) (*model.Caregiver, error)
	ListCaregivers(ctx context.Context) ([]*model.Caregiver, error)
	UpdateCaregiver(ctx context.Context, actor *session.Session, id int64, req *model.UpdateCaregiverRequest) (*model.Caregiver, error)
	MarkCaregiverForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Caregiver, error)
}

type Service struct {
	repo    repository.CaregiverRepository
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.CaregiverRepository, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, log: log, metrics: m}
}

// Caregiver records are person records: the same admin gate as patients.
func (s *Service) authorize(actor *session.Session) error {
	if !actor.Principal.IsAdmin() {
		s.metrics.MutationsDenied.WithLabelValues("caregiver").Inc()
		return apperrors.NewAuthorization("only admins may modify caregiver records")
	}
	return nil
}

func (s *Service) CreateCaregiver(ctx context.Context, actor *session.Session, req *model.CreateCaregiverRequest) (*model.Caregiver, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if err := validateCaregiverFields(req.FirstName, req.Surname, req.PhoneNumber); err != nil {
		return nil, err
	}

	caregiver := &model.Caregiver{
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
		Retention:   model.NewActiveRetention(),
	}
	if err := s.repo.Create(ctx, caregiver); err != nil {
		return nil, err
	}
	return caregiver, nil
}

func (s *Service) GetCaregiver(ctx context.Context, id int64) (*model.Caregiver, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListCaregivers(ctx context.Context) ([]*model.Caregiver, error) {
	if removed, err := s.repo.PurgeExpired(ctx); err != nil {
		s.log.Error(err, "caregiver purge sweep failed")
	} else if removed > 0 {
		s.metrics.RecordsPurged.WithLabelValues("caregiver").Add(float64(removed))
		s.log.Info("purged expired caregivers", "count", removed)
	}
	return s.repo.ListActive(ctx)
}

func (s *Service) UpdateCaregiver(ctx context.Context, actor *session.Session, id int64, req *model.UpdateCaregiverRequest) (*model.Caregiver, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if err := validateCaregiverFields(req.FirstName, req.Surname, req.PhoneNumber); err != nil {
		return nil, err
	}

	caregiver, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	caregiver.FirstName = req.FirstName
	caregiver.Surname = req.Surname
	caregiver.PhoneNumber = req.PhoneNumber
	actorName := actor.Principal.Username
	caregiver.ChangedBy = &actorName

	if err := s.repo.Update(ctx, caregiver); err != nil {
		return nil, err
	}
	return caregiver, nil
}

func (s *Service) MarkCaregiverForDeletion(ctx context.Context, actor *session.Session, id int64) (*model.Caregiver, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	caregiver, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	retention.MarkForDeletion(&caregiver.Retention, actor.Principal.Username, time.Now())
	if err := s.repo.Update(ctx, caregiver); err != nil {
		return nil, err
	}

	s.metrics.RecordsMarked.WithLabelValues("caregiver").Inc()
	s.log.Info("caregiver marked for deletion",
		"id", caregiver.ID, "deleted_by", actor.Principal.Username, "deletion_date", caregiver.DeletionDate.String())
	return caregiver, nil
}

func validateCaregiverFields(firstName, surname, phoneNumber string) error {
	switch {
	case firstName == "":
		return apperrors.NewValidation("first name is required")
	case surname == "":
		return apperrors.NewValidation("surname is required")
	case phoneNumber == "":
		return apperrors.NewValidation("phone number is required")
	}
	return nil
}
