package resolver

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

// MongoDirectory reads patient and staff records from their collections.
type MongoDirectory struct {
	patients *mongo.Collection
	staff    *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{
		patients: db.Collection("patients"),
		staff:    db.Collection("staff"),
	}
}

func (d *MongoDirectory) FindPatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := d.patients.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, apperr.Internal("Failed to load patient", err)
	}
	return &p, nil
}

func (d *MongoDirectory) FindPatientByCode(ctx context.Context, code string) (*models.Patient, error) {
	var p models.Patient
	err := d.patients.FindOne(ctx, bson.M{"code": code}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, apperr.Internal("Failed to load patient", err)
	}
	return &p, nil
}

func (d *MongoDirectory) FindPatientByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := d.patients.FindOne(ctx, bson.M{"userId": userID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, apperr.Internal("Failed to load patient", err)
	}
	return &p, nil
}

func (d *MongoDirectory) FindStaffByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	var s models.Staff
	err := d.staff.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Doctor not found")
		}
		return nil, apperr.Internal("Failed to load staff record", err)
	}
	return &s, nil
}
