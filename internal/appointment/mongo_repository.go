package appointment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

// MongoRepository persists appointments in the "appointments" collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("appointments")}
}

// EnsureIndexes creates the partial unique slot indexes. The store, not the
// application pre-check, is what ultimately guarantees at most one active
// appointment per clinician slot and per room slot.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	partial := bson.M{"active": true}
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "staffId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_clinician_slot").
				SetUnique(true).
				SetPartialFilterExpression(partial),
		},
		{
			Keys: bson.D{{Key: "room", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_room_slot").
				SetUnique(true).
				SetPartialFilterExpression(partial),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("patient_date"),
		},
	})
	return err
}

func (r *MongoRepository) Insert(ctx context.Context, apt *models.Appointment) error {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	apt.CreatedAt = now
	apt.UpdatedAt = now
	apt.Active = models.OccupiesSlot(apt.Status)

	_, err := r.coll.InsertOne(ctx, apt)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("This slot has just been booked")
		}
		return apperr.Internal("Failed to create appointment", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var apt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, apperr.Internal("Failed to load appointment", err)
	}
	return &apt, nil
}

func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]models.Appointment, error) {
	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if !f.PatientID.IsZero() {
		filter["patientId"] = f.PatientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve appointments", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, apperr.Internal("Failed to decode appointments", err)
	}
	if appointments == nil {
		appointments = make([]models.Appointment, 0)
	}
	return appointments, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]interface{}) (*models.Appointment, error) {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}
	if status, ok := set["status"].(string); ok {
		fields["active"] = models.OccupiesSlot(status)
	}

	after := options.After
	var apt models.Appointment
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Appointment not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("This slot has just been booked")
		}
		return nil, apperr.Internal("Failed to update appointment", err)
	}
	return &apt, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("Failed to delete appointment", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Appointment not found")
	}
	return nil
}

func (r *MongoRepository) FindClinicianConflict(ctx context.Context, staffID primitive.ObjectID, date, timeSlot string, excludeID primitive.ObjectID) (*models.Appointment, error) {
	filter := bson.M{
		"staffId": staffID,
		"date":    date,
		"time":    timeSlot,
		"status":  bson.M{"$nin": bson.A{models.StatusCancelled, models.StatusNoShow}},
	}
	return r.findConflict(ctx, filter, excludeID)
}

func (r *MongoRepository) FindRoomConflict(ctx context.Context, room, date, timeSlot string, excludeID primitive.ObjectID) (*models.Appointment, error) {
	filter := bson.M{
		"room":   room,
		"date":   date,
		"time":   timeSlot,
		"status": bson.M{"$nin": bson.A{models.StatusCancelled, models.StatusNoShow}},
	}
	return r.findConflict(ctx, filter, excludeID)
}

func (r *MongoRepository) findConflict(ctx context.Context, filter bson.M, excludeID primitive.ObjectID) (*models.Appointment, error) {
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	var apt models.Appointment
	err := r.coll.FindOne(ctx, filter).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperr.Internal("Failed to check slot availability", err)
	}
	return &apt, nil
}
