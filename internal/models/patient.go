package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Patient is the clinic's patient record. Code is the short human-readable
// identifier (e.g. "P001") printed on cards and used at the front desk.
// UserID links the record to the login account that owns it.
type Patient struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code     string             `bson:"code" json:"code"`
	FullName string             `bson:"fullName" json:"fullName"`
	UserID   primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Phone    string             `bson:"phone" json:"phone"`
}

// Staff is a clinician record. Lookup is by internal id only.
type Staff struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Specialization string             `bson:"specialization" json:"specialization"`
	UserID         primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
}
