package model

// Caregiver is a member of the nursing staff performing treatments.
type Caregiver struct {
	ID          int64  `db:"id" json:"id"`
	FirstName   string `db:"firstname" json:"first_name"`
	Surname     string `db:"surname" json:"surname"`
	PhoneNumber string `db:"phonenumber" json:"phone_number"`
	Retention
}

type CreateCaregiverRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type UpdateCaregiverRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}
