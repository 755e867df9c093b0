package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Record status codes as persisted in the status column.
const (
	StatusActive   = "a"
	StatusInactive = "i"
)

// Date is a calendar date without a time component, stored in DATE columns
// and rendered as "2006-01-02" in JSON.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Retention carries the soft-delete state shared by every retained entity.
// Invariant: Status == StatusActive exactly when ArchiveDate and DeletionDate
// are both nil.
type Retention struct {
	Status       string  `db:"status" json:"status"`
	DeletionDate *Date   `db:"deletion_date" json:"deletion_date,omitempty"`
	ArchiveDate  *Date   `db:"archive_date" json:"archive_date,omitempty"`
	ChangedBy    *string `db:"changed_by" json:"changed_by,omitempty"`
	DeletedBy    *string `db:"deleted_by" json:"deleted_by,omitempty"`
}

// NewActiveRetention returns the retention block of a freshly created record.
func NewActiveRetention() Retention {
	return Retention{Status: StatusActive}
}

// Active reports whether the record is visible to ordinary listings.
func (r *Retention) Active() bool {
	return r.Status == StatusActive
}
