package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hitecare/carehome-api/internal/model"
	"github.com/hitecare/carehome-api/pkg/security"
)

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Seed fills an empty database with the facility's starter dataset: a few
// residents and caregivers plus one admin account ("u.mann") and staff
// accounts reusing the caregiver names. Intended for dev setups and tests.
// A database that already has user accounts is left alone.
func Seed(db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var existing int
	if err := db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM "user"`); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	patients := NewPatientRepository(db)
	caregivers := NewCaregiverRepository(db)
	treatments := NewTreatmentRepository(db)
	users := NewUserRepository(db)

	for _, p := range []*model.Patient{
		{FirstName: "Seppl", Surname: "Herberger", DateOfBirth: date("1945-12-01"), CareLevel: "4", RoomNumber: "202", Retention: model.NewActiveRetention()},
		{FirstName: "Martina", Surname: "Gerdsen", DateOfBirth: date("1954-08-12"), CareLevel: "5", RoomNumber: "010", Retention: model.NewActiveRetention()},
		{FirstName: "Gertrud", Surname: "Franzen", DateOfBirth: date("1949-04-16"), CareLevel: "3", RoomNumber: "002", Retention: model.NewActiveRetention()},
		{FirstName: "Ahmet", Surname: "Yilmaz", DateOfBirth: date("1941-02-22"), CareLevel: "3", RoomNumber: "013", Retention: model.NewActiveRetention()},
		{FirstName: "Hans", Surname: "Neumann", DateOfBirth: date("1955-12-12"), CareLevel: "2", RoomNumber: "001", Retention: model.NewActiveRetention()},
	} {
		if err := patients.Create(ctx, p); err != nil {
			return err
		}
	}

	for _, c := range []*model.Caregiver{
		{FirstName: "Maria", Surname: "Schmidt", PhoneNumber: "020393", Retention: model.NewActiveRetention()},
		{FirstName: "Michael", Surname: "Berg", PhoneNumber: "0203931", Retention: model.NewActiveRetention()},
		{FirstName: "Lin", Surname: "Park", PhoneNumber: "0203932", Retention: model.NewActiveRetention()},
		{FirstName: "Anna", Surname: "Suarez", PhoneNumber: "0203933", Retention: model.NewActiveRetention()},
	} {
		if err := caregivers.Create(ctx, c); err != nil {
			return err
		}
	}

	for _, t := range []*model.Treatment{
		{PatientID: 1, CaregiverID: 1, Date: date("2023-06-03"), Begin: "11:00", End: "15:00", Description: "Gespräch", Remark: "Patient beruhigt sich erst, als alle Wertsachen im Zimmer gefunden worden sind.", Retention: model.NewActiveRetention()},
		{PatientID: 2, CaregiverID: 1, Date: date("2023-06-04"), Begin: "07:30", End: "08:00", Description: "Waschen", Remark: "Patient mit Waschlappen gewaschen und frisch angezogen.", Retention: model.NewActiveRetention()},
		{PatientID: 1, CaregiverID: 2, Date: date("2023-06-06"), Begin: "15:10", End: "16:00", Description: "Spaziergang", Remark: "Spaziergang im Park, Patient döst im Rollstuhl ein.", Retention: model.NewActiveRetention()},
		{PatientID: 5, CaregiverID: 1, Date: date("2023-06-08"), Begin: "15:00", End: "15:30", Description: "Physiotherapie", Remark: "Übungen zur Stabilisation und Mobilisierung der Rückenmuskulatur.", Retention: model.NewActiveRetention()},
	} {
		if err := treatments.Create(ctx, t); err != nil {
			return err
		}
	}

	hasher := security.NewLegacyHasher()
	for _, u := range []struct {
		first, last, username, password, role string
	}{
		{"Udo", "Mann", "u.mann", "admin", model.RoleAdmin},
		{"Anna", "Suarez", "a.suarez", "pflege1", model.RoleStaff},
		{"Lin", "Park", "l.park", "pflege2", model.RoleStaff},
		{"Michael", "Berg", "m.berg", "pflege2", model.RoleStaff},
	} {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, &model.User{
			FirstName:    u.first,
			Surname:      u.last,
			Username:     u.username,
			PasswordHash: hash,
			Role:         u.role,
		}); err != nil {
			return err
		}
	}

	return nil
}
