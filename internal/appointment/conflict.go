package appointment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-api/internal/apperr"
)

// checkSlotConflicts runs the two double-booking queries for a candidate
// slot. The clinician check runs and is reported first; when both would
// conflict only the clinician message surfaces. excludeID keeps an
// appointment being rescheduled out of its own check.
func (s *Service) checkSlotConflicts(ctx context.Context, staffID primitive.ObjectID, doctorName, room, date, timeSlot string, excludeID primitive.ObjectID) error {
	existing, err := s.repo.FindClinicianConflict(ctx, staffID, date, timeSlot, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		name := doctorName
		if name == "" {
			name = existing.DoctorName
		}
		return apperr.Conflict(fmt.Sprintf("Doctor %s is already booked at %s on %s", name, timeSlot, date))
	}

	existing, err = s.repo.FindRoomConflict(ctx, room, date, timeSlot, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict(fmt.Sprintf("Room %s is already booked at %s on %s", room, timeSlot, date))
	}
	return nil
}
