package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
)

type caregiverRepository struct {
	BaseRepository
}

func NewCaregiverRepository(db *sqlx.DB) repository.CaregiverRepository {
	return &caregiverRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *caregiverRepository) Create(ctx context.Context, caregiver *model.Caregiver) error {
	query := `
		INSERT INTO caregiver (firstname, surname, phonenumber,
			status, deletion_date, archive_date, changed_by, deleted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		caregiver.FirstName,
		caregiver.Surname,
		caregiver.PhoneNumber,
		caregiver.Status,
		caregiver.DeletionDate,
		caregiver.ArchiveDate,
		caregiver.ChangedBy,
		caregiver.DeletedBy,
	).Scan(&caregiver.ID)
	return translate("caregiver", err)
}

func (r *caregiverRepository) Get(ctx context.Context, id int64) (*model.Caregiver, error) {
	query := `SELECT * FROM caregiver WHERE id = $1`
	var caregiver model.Caregiver
	if err := r.db.GetContext(ctx, &caregiver, query, id); err != nil {
		return nil, translate("caregiver", err)
	}
	return &caregiver, nil
}

func (r *caregiverRepository) ListActive(ctx context.Context) ([]*model.Caregiver, error) {
	query := `SELECT * FROM caregiver WHERE status = $1 ORDER BY id`
	caregivers := []*model.Caregiver{}
	if err := r.db.SelectContext(ctx, &caregivers, query, model.StatusActive); err != nil {
		return nil, translate("caregiver", err)
	}
	return caregivers, nil
}

func (r *caregiverRepository) Update(ctx context.Context, caregiver *model.Caregiver) error {
	query := `
		UPDATE caregiver SET firstname = $1, surname = $2, phonenumber = $3,
			status = $4, deletion_date = $5, archive_date = $6, changed_by = $7, deleted_by = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		caregiver.FirstName,
		caregiver.Surname,
		caregiver.PhoneNumber,
		caregiver.Status,
		caregiver.DeletionDate,
		caregiver.ArchiveDate,
		caregiver.ChangedBy,
		caregiver.DeletedBy,
		caregiver.ID,
	)
	if err != nil {
		return translate("caregiver", err)
	}
	return checkAffected("caregiver", result)
}

func (r *caregiverRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM caregiver WHERE id = $1`, id)
	if err != nil {
		return translate("caregiver", err)
	}
	return checkAffected("caregiver", result)
}

func (r *caregiverRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM caregiver
		WHERE status != $1 AND deletion_date IS NOT NULL AND deletion_date <= CURRENT_DATE
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusActive)
	if err != nil {
		return 0, translate("caregiver", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, translate("caregiver", err)
	}
	return removed, nil
}
