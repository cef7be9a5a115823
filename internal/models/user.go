package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles. "patient" callers go through the restricted channel,
// "staff" and "admin" through the full one.
const (
	RolePatient = "patient"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // Hide from JSON responses
	Role     string             `bson:"role" json:"role"`
	Phone    string             `bson:"phone" json:"phone"`
}
