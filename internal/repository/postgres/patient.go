package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patient (firstname, surname, date_of_birth, carelevel, roomnumber,
			status, deletion_date, archive_date, changed_by, deleted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING pid
	`
	err := r.db.QueryRowxContext(ctx, query,
		patient.FirstName,
		patient.Surname,
		patient.DateOfBirth,
		patient.CareLevel,
		patient.RoomNumber,
		patient.Status,
		patient.DeletionDate,
		patient.ArchiveDate,
		patient.ChangedBy,
		patient.DeletedBy,
	).Scan(&patient.ID)
	return translate("patient", err)
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT * FROM patient WHERE pid = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, translate("patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) ListActive(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patient WHERE status = $1 ORDER BY pid`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, model.StatusActive); err != nil {
		return nil, translate("patient", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patient SET firstname = $1, surname = $2, date_of_birth = $3,
			carelevel = $4, roomnumber = $5, status = $6, deletion_date = $7,
			archive_date = $8, changed_by = $9, deleted_by = $10
		WHERE pid = $11
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.Surname,
		patient.DateOfBirth,
		patient.CareLevel,
		patient.RoomNumber,
		patient.Status,
		patient.DeletionDate,
		patient.ArchiveDate,
		patient.ChangedBy,
		patient.DeletedBy,
		patient.ID,
	)
	if err != nil {
		return translate("patient", err)
	}
	return checkAffected("patient", result)
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patient WHERE pid = $1`, id)
	if err != nil {
		return translate("patient", err)
	}
	return checkAffected("patient", result)
}

func (r *patientRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM patient
		WHERE status != $1 AND deletion_date IS NOT NULL AND deletion_date <= CURRENT_DATE
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusActive)
	if err != nil {
		return 0, translate("patient", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, translate("patient", err)
	}
	return removed, nil
}
