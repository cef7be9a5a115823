package appointment

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-api/internal/models"
)

// Filter narrows list queries. Zero values mean "no constraint".
type Filter struct {
	Date      string
	PatientID primitive.ObjectID
	Status    string
}

// Repository contains all appointment store interactions the service needs.
// Slot-conflict lookups consider only appointments whose status still
// occupies the slot; excludeID leaves the appointment being updated out of
// its own conflict check.
type Repository interface {
	Insert(ctx context.Context, apt *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	Find(ctx context.Context, f Filter) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, set map[string]interface{}) (*models.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	FindClinicianConflict(ctx context.Context, staffID primitive.ObjectID, date, timeSlot string, excludeID primitive.ObjectID) (*models.Appointment, error)
	FindRoomConflict(ctx context.Context, room, date, timeSlot string, excludeID primitive.ObjectID) (*models.Appointment, error)
}
