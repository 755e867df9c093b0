// Package retention implements the soft-delete lifecycle shared by every
// record kind: Active → MarkedForDeletion → Purged. The transition itself is
// a pure mutation of the model's retention block; the terminal purge is a
// bulk predicate delete owned by the repositories.
package retention

import (
	"fmt"
	"time"

	"github.com/hitecare/carehome-api/internal/model"
)

// WindowYears is the fixed retention window between archiving a record and
// its purge eligibility.
const WindowYears = 10

// MarkForDeletion flips the record to inactive and stamps the retention
// window: archive date = today, deletion date = today + WindowYears, deleted
// by = actor. Invoking it on an already inactive record re-applies the same
// effect, so the status is idempotent but both dates advance to "now" again.
func MarkForDeletion(r *model.Retention, actor string, now time.Time) {
	archive := model.NewDate(now)
	deletion := model.NewDate(now.AddDate(WindowYears, 0, 0))

	r.Status = model.StatusInactive
	r.ArchiveDate = &archive
	r.DeletionDate = &deletion
	r.DeletedBy = &actor
}

// PurgeEligible reports whether an inactive record's retention window has
// elapsed as of today.
func PurgeEligible(r *model.Retention, today time.Time) bool {
	if r.Active() || r.DeletionDate == nil {
		return false
	}
	return !r.DeletionDate.After(model.NewDate(today).Time)
}

// CheckInvariant verifies that status and retention dates agree: an active
// record carries no dates, an inactive one carries both, and the deletion
// date is exactly the archive date plus the retention window.
func CheckInvariant(r *model.Retention) error {
	if r.Active() {
		if r.ArchiveDate != nil || r.DeletionDate != nil {
			return fmt.Errorf("active record carries retention dates")
		}
		return nil
	}
	if r.ArchiveDate == nil || r.DeletionDate == nil {
		return fmt.Errorf("inactive record is missing retention dates")
	}
	want := model.NewDate(r.ArchiveDate.AddDate(WindowYears, 0, 0))
	if !r.DeletionDate.Equal(want.Time) {
		return fmt.Errorf("deletion date %s is not archive date + %d years", r.DeletionDate, WindowYears)
	}
	return nil
}
