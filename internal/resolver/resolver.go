// Package resolver turns caller-supplied patient and staff references into
// canonical entity handles. Patients may be referenced by internal id or by
// their short code; staff only by id.
package resolver

import (
	"context"
	"encoding/hex"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

// Match tags how a patient reference was resolved.
type Match int

const (
	ByID Match = iota
	ByCode
)

// ResolvedPatient is the canonical handle for a patient reference.
type ResolvedPatient struct {
	Patient models.Patient
	Match   Match
}

// ResolvedStaff is the canonical handle for a staff reference.
type ResolvedStaff struct {
	Staff models.Staff
}

// Directory is the narrow read surface the scheduling core consumes from
// the patient and staff record subsystems.
type Directory interface {
	FindPatientByID(ctx context.Context, id primitive.ObjectID) (*models.Patient, error)
	FindPatientByCode(ctx context.Context, code string) (*models.Patient, error)
	FindPatientByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error)
	FindStaffByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error)
}

type Resolver struct {
	dir Directory
}

func New(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Patient resolves ref, trying an id lookup first when the input is
// id-shaped, then falling back to code lookup. An id-shaped ref that
// misses still falls through to the code lookup.
func (r *Resolver) Patient(ctx context.Context, ref string) (*ResolvedPatient, error) {
	if ref == "" {
		return nil, apperr.Validation("Patient reference is required")
	}

	if idShaped(ref) {
		id, err := primitive.ObjectIDFromHex(ref)
		if err == nil {
			p, err := r.dir.FindPatientByID(ctx, id)
			if err == nil {
				return &ResolvedPatient{Patient: *p, Match: ByID}, nil
			}
			if !apperr.IsKind(err, apperr.KindNotFound) {
				return nil, err
			}
		}
	}

	p, err := r.dir.FindPatientByCode(ctx, ref)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, err
	}
	return &ResolvedPatient{Patient: *p, Match: ByCode}, nil
}

// PatientByUser resolves the patient record owned by a login account.
// Used by the ownership gate on the patient channel.
func (r *Resolver) PatientByUser(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	p, err := r.dir.FindPatientByUserID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, err
	}
	return p, nil
}

// Staff resolves a staff reference. Id-only, no code fallback.
func (r *Resolver) Staff(ctx context.Context, ref string) (*ResolvedStaff, error) {
	if ref == "" {
		return nil, apperr.Validation("Doctor reference is required")
	}
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, apperr.NotFound("Doctor not found")
	}
	s, err := r.dir.FindStaffByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Doctor not found")
		}
		return nil, err
	}
	return &ResolvedStaff{Staff: *s}, nil
}

// idShaped reports whether ref looks like a Mongo ObjectID hex string.
func idShaped(ref string) bool {
	if len(ref) != 24 {
		return false
	}
	_, err := hex.DecodeString(ref)
	return err == nil
}
