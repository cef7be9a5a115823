package appointment

import (
	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

// Channel is the privilege context a request is evaluated under.
type Channel int

const (
	// ChannelStaff covers staff and admin callers: full control.
	ChannelStaff Channel = iota
	// ChannelPatient covers the appointment owner: restricted, ownership-scoped.
	ChannelPatient
)

// validateTransition enforces the status lifecycle per channel:
// scheduled -> {completed, cancelled, no-show}. The staff channel may set
// any status, including re-opening a terminal appointment back to
// scheduled (the service logs that case). The patient channel may only
// cancel, and only a scheduled appointment; re-cancelling an already
// cancelled one is a permitted no-op.
func validateTransition(ch Channel, current, requested string) error {
	if !models.ValidStatus(requested) {
		return apperr.Validation("Invalid status value: " + requested)
	}

	if ch == ChannelStaff {
		return nil
	}

	if requested != models.StatusCancelled {
		return apperr.Forbidden("Patients may only cancel their appointments")
	}
	switch current {
	case models.StatusScheduled, models.StatusCancelled:
		return nil
	default:
		return apperr.Forbidden("Only a scheduled appointment can be cancelled")
	}
}

// isReopening reports whether a staff status change pulls an appointment
// out of a terminal state. Allowed, but it is a deliberate act the service
// records in the audit log.
func isReopening(current, requested string) bool {
	return models.IsTerminal(current) && requested == models.StatusScheduled
}
