package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses. Only "scheduled" occupies a slot for conflict
// purposes; the other three are terminal.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// TimeSlots is the fixed ordered set of bookable slot labels. Slots are
// compared as opaque strings, never parsed as times of day.
var TimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM", "12:00 PM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM",
}

// Rooms is the fixed set of bookable room identifiers.
var Rooms = []string{"R1", "R2", "R3", "R4", "R5"}

// DateLayout is the calendar-date format appointments are stored with.
// Dates are compared by exact value, no timezone normalization.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID      primitive.ObjectID `bson:"patientId" json:"patientId"`
	PatientName    string             `bson:"patientName" json:"patientName"`
	StaffID        primitive.ObjectID `bson:"staffId" json:"staffId"`
	DoctorName     string             `bson:"doctorName" json:"doctorName"`
	Specialization string             `bson:"specialization" json:"specialization"`
	Date           string             `bson:"date" json:"date"`
	Time           string             `bson:"time" json:"time"`
	Room           string             `bson:"room" json:"room"`
	Reason         string             `bson:"reason" json:"reason"`
	Notes          string             `bson:"notes" json:"notes"`
	Status         string             `bson:"status" json:"status"`
	// Active mirrors OccupiesSlot(Status). Maintained by the repository so
	// the partial unique slot indexes have an equality predicate to hang on.
	Active    bool      `bson:"active" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsTerminal reports whether a status has no caller-driven outbound
// transition on the patient channel.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled || status == StatusNoShow
}

// OccupiesSlot reports whether an appointment with this status still holds
// its (clinician, room, date, time) slot for conflict checks. Cancelled and
// no-show free the slot; completed keeps it.
func OccupiesSlot(status string) bool {
	return status != StatusCancelled && status != StatusNoShow
}

// ValidStatus reports whether s is one of the four appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ValidTimeSlot reports whether t is one of the bookable slot labels.
func ValidTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ValidRoom reports whether r is one of the bookable rooms.
func ValidRoom(r string) bool {
	for _, room := range Rooms {
		if room == r {
			return true
		}
	}
	return false
}

// ValidDate reports whether d parses as a YYYY-MM-DD calendar date.
func ValidDate(d string) bool {
	_, err := time.Parse(DateLayout, d)
	return err == nil
}
