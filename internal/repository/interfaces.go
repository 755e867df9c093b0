package repository

import (
	"context"

	"github.com/hitecare/carehome-api/internal/model"
)

// All repository interfaces in one file. Each record repository implements
// the same gateway contract: Create assigns the serial id, Get resolves any
// record regardless of status, ListActive returns only active rows in
// insertion order, Update overwrites the full row, Delete hard-deletes (purge
// and cascades only), and PurgeExpired removes every inactive row whose
// deletion date has passed, returning the number of rows removed.
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		ListActive(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		PurgeExpired(ctx context.Context) (int64, error)
	}

	CaregiverRepository interface {
		Create(ctx context.Context, caregiver *model.Caregiver) error
		Get(ctx context.Context, id int64) (*model.Caregiver, error)
		ListActive(ctx context.Context) ([]*model.Caregiver, error)
		Update(ctx context.Context, caregiver *model.Caregiver) error
		Delete(ctx context.Context, id int64) error
		PurgeExpired(ctx context.Context) (int64, error)
	}

	TreatmentRepository interface {
		Create(ctx context.Context, treatment *model.Treatment) error
		Get(ctx context.Context, id int64) (*model.Treatment, error)
		ListActive(ctx context.Context) ([]*model.Treatment, error)
		ListActiveByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error)
		Update(ctx context.Context, treatment *model.Treatment) error
		Delete(ctx context.Context, id int64) error
		PurgeExpired(ctx context.Context) (int64, error)
	}

	// UserRepository is the credential store backing authentication.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	}
)
