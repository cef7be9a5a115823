package resolver

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

type fakeDirectory struct {
	byID     map[primitive.ObjectID]*models.Patient
	byCode   map[string]*models.Patient
	byUser   map[primitive.ObjectID]*models.Patient
	staffIDs map[primitive.ObjectID]*models.Staff
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byID:     map[primitive.ObjectID]*models.Patient{},
		byCode:   map[string]*models.Patient{},
		byUser:   map[primitive.ObjectID]*models.Patient{},
		staffIDs: map[primitive.ObjectID]*models.Staff{},
	}
}

func (f *fakeDirectory) addPatient(p *models.Patient) {
	f.byID[p.ID] = p
	f.byCode[p.Code] = p
	if !p.UserID.IsZero() {
		f.byUser[p.UserID] = p
	}
}

func (f *fakeDirectory) FindPatientByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Patient not found")
}

func (f *fakeDirectory) FindPatientByCode(_ context.Context, code string) (*models.Patient, error) {
	if p, ok := f.byCode[code]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Patient not found")
}

func (f *fakeDirectory) FindPatientByUserID(_ context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Patient not found")
}

func (f *fakeDirectory) FindStaffByID(_ context.Context, id primitive.ObjectID) (*models.Staff, error) {
	if s, ok := f.staffIDs[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("Doctor not found")
}

func TestPatient_ByID(t *testing.T) {
	dir := newFakeDirectory()
	p := &models.Patient{ID: primitive.NewObjectID(), Code: "P001", FullName: "Alice"}
	dir.addPatient(p)
	r := New(dir)

	got, err := r.Patient(context.Background(), p.ID.Hex())
	if err != nil {
		t.Fatalf("resolve by id failed: %v", err)
	}
	if got.Match != ByID {
		t.Fatalf("expected ByID match, got %v", got.Match)
	}
	if got.Patient.ID != p.ID {
		t.Fatal("wrong patient resolved")
	}
}

func TestPatient_ByCode(t *testing.T) {
	dir := newFakeDirectory()
	p := &models.Patient{ID: primitive.NewObjectID(), Code: "P001", FullName: "Alice"}
	dir.addPatient(p)
	r := New(dir)

	got, err := r.Patient(context.Background(), "P001")
	if err != nil {
		t.Fatalf("resolve by code failed: %v", err)
	}
	if got.Match != ByCode {
		t.Fatalf("expected ByCode match, got %v", got.Match)
	}
}

func TestPatient_IDShapedFallsBackToCode(t *testing.T) {
	dir := newFakeDirectory()
	// A code that happens to be 24 hex characters.
	code := "aaaaaaaaaaaaaaaaaaaaaaaa"
	p := &models.Patient{ID: primitive.NewObjectID(), Code: code, FullName: "Alice"}
	dir.addPatient(p)
	r := New(dir)

	got, err := r.Patient(context.Background(), code)
	if err != nil {
		t.Fatalf("fallback to code failed: %v", err)
	}
	if got.Match != ByCode {
		t.Fatalf("expected ByCode after id miss, got %v", got.Match)
	}
}

func TestPatient_NotFound(t *testing.T) {
	r := New(newFakeDirectory())

	_, err := r.Patient(context.Background(), "P999")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.Message(err) != "Patient not found" {
		t.Fatalf("expected patient message, got %q", apperr.Message(err))
	}
}

func TestPatient_EmptyRef(t *testing.T) {
	r := New(newFakeDirectory())
	if _, err := r.Patient(context.Background(), ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStaff_IDOnly(t *testing.T) {
	dir := newFakeDirectory()
	s := &models.Staff{ID: primitive.NewObjectID(), FullName: "Dr. Andry", Specialization: "Orthodontics"}
	dir.staffIDs[s.ID] = s
	r := New(dir)

	got, err := r.Staff(context.Background(), s.ID.Hex())
	if err != nil {
		t.Fatalf("resolve staff failed: %v", err)
	}
	if got.Staff.ID != s.ID {
		t.Fatal("wrong staff resolved")
	}

	// No code fallback for staff: a non-id ref is simply not found.
	if _, err := r.Staff(context.Background(), "D001"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for non-id staff ref, got %v", err)
	}
	if _, err := r.Staff(context.Background(), primitive.NewObjectID().Hex()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown staff id, got %v", err)
	}
}

func TestStaff_NotFoundMessage(t *testing.T) {
	r := New(newFakeDirectory())
	_, err := r.Staff(context.Background(), primitive.NewObjectID().Hex())
	if apperr.Message(err) != "Doctor not found" {
		t.Fatalf("expected doctor message, got %q", apperr.Message(err))
	}
}

func TestPatientByUser(t *testing.T) {
	dir := newFakeDirectory()
	userID := primitive.NewObjectID()
	p := &models.Patient{ID: primitive.NewObjectID(), Code: "P001", FullName: "Alice", UserID: userID}
	dir.addPatient(p)
	r := New(dir)

	got, err := r.PatientByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve by user failed: %v", err)
	}
	if got.ID != p.ID {
		t.Fatal("wrong patient resolved")
	}

	if _, err := r.PatientByUser(context.Background(), primitive.NewObjectID()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIDShaped(t *testing.T) {
	if !idShaped("507f1f77bcf86cd799439011") {
		t.Fatal("24 hex chars is id-shaped")
	}
	if idShaped("P001") {
		t.Fatal("short code is not id-shaped")
	}
	if idShaped("507f1f77bcf86cd79943901z") {
		t.Fatal("non-hex is not id-shaped")
	}
}
