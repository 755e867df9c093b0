package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
)

type treatmentRepository struct {
	BaseRepository
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) error {
	query := `
		INSERT INTO treatment (pid, caregiver_id, treatment_date, begin, "end",
			description, remark, status, deletion_date, archive_date, changed_by, deleted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING tid
	`
	err := r.db.QueryRowxContext(ctx, query,
		treatment.PatientID,
		treatment.CaregiverID,
		treatment.Date,
		treatment.Begin,
		treatment.End,
		treatment.Description,
		treatment.Remark,
		treatment.Status,
		treatment.DeletionDate,
		treatment.ArchiveDate,
		treatment.ChangedBy,
		treatment.DeletedBy,
	).Scan(&treatment.ID)
	return translate("treatment", err)
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	query := `SELECT * FROM treatment WHERE tid = $1`
	var treatment model.Treatment
	if err := r.db.GetContext(ctx, &treatment, query, id); err != nil {
		return nil, translate("treatment", err)
	}
	return &treatment, nil
}

func (r *treatmentRepository) ListActive(ctx context.Context) ([]*model.Treatment, error) {
	query := `SELECT * FROM treatment WHERE status = $1 ORDER BY tid`
	treatments := []*model.Treatment{}
	if err := r.db.SelectContext(ctx, &treatments, query, model.StatusActive); err != nil {
		return nil, translate("treatment", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) ListActiveByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error) {
	query := `SELECT * FROM treatment WHERE status = $1 AND pid = $2 ORDER BY tid`
	treatments := []*model.Treatment{}
	if err := r.db.SelectContext(ctx, &treatments, query, model.StatusActive, patientID); err != nil {
		return nil, translate("treatment", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) error {
	query := `
		UPDATE treatment SET pid = $1, caregiver_id = $2, treatment_date = $3,
			begin = $4, "end" = $5, description = $6, remark = $7,
			status = $8, deletion_date = $9, archive_date = $10, changed_by = $11, deleted_by = $12
		WHERE tid = $13
	`
	result, err := r.db.ExecContext(ctx, query,
		treatment.PatientID,
		treatment.CaregiverID,
		treatment.Date,
		treatment.Begin,
		treatment.End,
		treatment.Description,
		treatment.Remark,
		treatment.Status,
		treatment.DeletionDate,
		treatment.ArchiveDate,
		treatment.ChangedBy,
		treatment.DeletedBy,
		treatment.ID,
	)
	if err != nil {
		return translate("treatment", err)
	}
	return checkAffected("treatment", result)
}

func (r *treatmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM treatment WHERE tid = $1`, id)
	if err != nil {
		return translate("treatment", err)
	}
	return checkAffected("treatment", result)
}

func (r *treatmentRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM treatment
		WHERE status != $1 AND deletion_date IS NOT NULL AND deletion_date <= CURRENT_DATE
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusActive)
	if err != nil {
		return 0, translate("treatment", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, translate("treatment", err)
	}
	return removed, nil
}
