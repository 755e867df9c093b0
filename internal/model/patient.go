package model

// Patient is a resident of the facility, treated by caregivers.
type Patient struct {
	ID          int64  `db:"pid" json:"id"`
	FirstName   string `db:"firstname" json:"first_name"`
	Surname     string `db:"surname" json:"surname"`
	DateOfBirth Date   `db:"date_of_birth" json:"date_of_birth"`
	CareLevel   string `db:"carelevel" json:"care_level"`
	RoomNumber  string `db:"roomnumber" json:"room_number"`
	Retention
}

type CreatePatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	CareLevel   string `json:"care_level" binding:"required,carelevel"`
	RoomNumber  string `json:"room_number" binding:"required"`
}

type UpdatePatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	CareLevel   string `json:"care_level" binding:"required,carelevel"`
	RoomNumber  string `json:"room_number" binding:"required"`
}
