package model

// Treatment is a single care encounter: one caregiver treating one patient
// during a time window on a calendar day. Begin and End are wall-clock times
// in "HH:MM" form, as entered.
type Treatment struct {
	ID          int64  `db:"tid" json:"id"`
	PatientID   int64  `db:"pid" json:"patient_id"`
	CaregiverID int64  `db:"caregiver_id" json:"caregiver_id"`
	Date        Date   `db:"treatment_date" json:"date"`
	Begin       string `db:"begin" json:"begin"`
	End         string `db:"end" json:"end"`
	Description string `db:"description" json:"description"`
	Remark      string `db:"remark" json:"remark"`
	Retention
}

type CreateTreatmentRequest struct {
	PatientID   int64  `json:"patient_id" binding:"required"`
	CaregiverID int64  `json:"caregiver_id" binding:"required"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Begin       string `json:"begin" binding:"required,datetime=15:04"`
	End         string `json:"end" binding:"required,datetime=15:04"`
	Description string `json:"description" binding:"required"`
	Remark      string `json:"remark"`
}

type UpdateTreatmentRequest struct {
	PatientID   int64  `json:"patient_id" binding:"required"`
	CaregiverID int64  `json:"caregiver_id" binding:"required"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Begin       string `json:"begin" binding:"required,datetime=15:04"`
	End         string `json:"end" binding:"required,datetime=15:04"`
	Description string `json:"description" binding:"required"`
	Remark      string `json:"remark"`
}
