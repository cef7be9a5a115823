package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/redislock"
	"github.com/harentsoaR/clinic-api/internal/resolver"
)

// Notifier is told about bookings and cancellations. Implementations must
// not block the request.
type Notifier interface {
	AppointmentBooked(patient *models.Patient, apt *models.Appointment)
	AppointmentCancelled(patient *models.Patient, apt *models.Appointment)
}

// Actor identifies the authenticated caller. On the patient channel the
// user id is mapped to the caller's own patient record.
type Actor struct {
	UserID primitive.ObjectID
}

type CreateInput struct {
	PatientRef string // id or code; ignored on the patient channel
	StaffRef   string
	Date       string
	Time       string
	Room       string
	Reason     string
	Notes      string
}

// UpdateInput carries a partial field set; nil means "leave unchanged".
// DoctorName/Specialization/PatientName act as snapshot overrides when
// supplied alongside a reference change.
type UpdateInput struct {
	PatientRef     *string
	PatientName    *string
	StaffRef       *string
	DoctorName     *string
	Specialization *string
	Date           *string
	Time           *string
	Room           *string
	Reason         *string
	Notes          *string
	Status         *string
}

// Service composes the identity resolver, ownership gate, status lifecycle
// and slot conflict validator in front of the repository. Every mutating
// path runs them in that order before any write.
type Service struct {
	repo     Repository
	res      *resolver.Resolver
	locker   redislock.Locker
	notifier Notifier
	log      zerolog.Logger
}

func NewService(repo Repository, res *resolver.Resolver, locker redislock.Locker, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{repo: repo, res: res, locker: locker, notifier: notifier, log: log}
}

// Create books a new appointment in scheduled status. On the patient
// channel the owning patient is implicit from the actor.
func (s *Service) Create(ctx context.Context, ch Channel, actor Actor, in CreateInput) (*models.Appointment, error) {
	if err := validateCreate(ch, in); err != nil {
		return nil, err
	}

	var patient *models.Patient
	if ch == ChannelPatient {
		p, err := s.res.PatientByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		patient = p
	} else {
		rp, err := s.res.Patient(ctx, in.PatientRef)
		if err != nil {
			return nil, err
		}
		patient = &rp.Patient
	}

	rs, err := s.res.Staff(ctx, in.StaffRef)
	if err != nil {
		return nil, err
	}
	staff := rs.Staff

	apt := &models.Appointment{
		PatientID:      patient.ID,
		PatientName:    patient.FullName,
		StaffID:        staff.ID,
		DoctorName:     staff.FullName,
		Specialization: staff.Specialization,
		Date:           in.Date,
		Time:           in.Time,
		Room:           in.Room,
		Reason:         in.Reason,
		Notes:          in.Notes,
		Status:         models.StatusScheduled,
	}

	keys := []string{
		redislock.ClinicianKey(staff.ID.Hex(), in.Date, in.Time),
		redislock.RoomKey(in.Room, in.Date, in.Time),
	}
	err = s.locker.WithSlotLocks(ctx, keys, func(lockCtx context.Context) error {
		if err := s.checkSlotConflicts(lockCtx, staff.ID, staff.FullName, in.Room, in.Date, in.Time, primitive.NilObjectID); err != nil {
			return err
		}
		return s.repo.Insert(lockCtx, apt)
	})
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return nil, apperr.Conflict("This slot is currently being booked, please retry")
		}
		return nil, err
	}

	s.log.Info().
		Str("appointmentId", apt.ID.Hex()).
		Str("doctor", apt.DoctorName).
		Str("room", apt.Room).
		Str("date", apt.Date).
		Str("time", apt.Time).
		Msg("appointment booked")
	s.notifier.AppointmentBooked(patient, apt)

	return apt, nil
}

// List returns appointments, optionally filtered by exact date. The
// patient channel only ever sees the caller's own records.
func (s *Service) List(ctx context.Context, ch Channel, actor Actor, date string) ([]models.Appointment, error) {
	if date != "" && !models.ValidDate(date) {
		return nil, apperr.Validation("Invalid date, use YYYY-MM-DD")
	}

	f := Filter{Date: date}
	if ch == ChannelPatient {
		patient, err := s.res.PatientByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		f.PatientID = patient.ID
	}

	appointments, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, appointments)
	return appointments, nil
}

// Get loads one appointment. Patient-channel callers must own it.
func (s *Service) Get(ctx context.Context, ch Channel, actor Actor, id string) (*models.Appointment, error) {
	apt, err := s.loadForChannel(ctx, ch, actor, id)
	if err != nil {
		return nil, err
	}
	one := []models.Appointment{*apt}
	s.hydrate(ctx, one)
	return &one[0], nil
}

// Update applies a partial field set. The ownership gate, the status
// lifecycle and the slot conflict validator all run before the write; the
// conflict check only runs when a slot-relevant field actually changes and
// the resulting status is not cancelled.
func (s *Service) Update(ctx context.Context, ch Channel, actor Actor, id string, in UpdateInput) (*models.Appointment, error) {
	current, err := s.loadForChannel(ctx, ch, actor, id)
	if err != nil {
		return nil, err
	}

	if ch == ChannelPatient {
		if err := rejectOwnerFields(in); err != nil {
			return nil, err
		}
	}

	set := map[string]interface{}{}

	// Resulting slot values, defaulting to what is stored.
	staffID := current.StaffID
	doctorName := current.DoctorName
	date := current.Date
	timeSlot := current.Time
	room := current.Room
	resultingStatus := current.Status

	reopening := false
	if in.Status != nil {
		if err := validateTransition(ch, current.Status, *in.Status); err != nil {
			return nil, err
		}
		if ch == ChannelStaff && isReopening(current.Status, *in.Status) {
			reopening = true
			s.log.Warn().
				Str("appointmentId", current.ID.Hex()).
				Str("from", current.Status).
				Str("to", *in.Status).
				Msg("re-opening terminal appointment")
		}
		resultingStatus = *in.Status
		set["status"] = *in.Status
	}

	if in.PatientRef != nil {
		rp, err := s.res.Patient(ctx, *in.PatientRef)
		if err != nil {
			return nil, err
		}
		set["patientId"] = rp.Patient.ID
		if in.PatientName == nil {
			set["patientName"] = rp.Patient.FullName
		}
	}
	if in.PatientName != nil {
		set["patientName"] = *in.PatientName
	}

	if in.StaffRef != nil {
		rs, err := s.res.Staff(ctx, *in.StaffRef)
		if err != nil {
			return nil, err
		}
		staffID = rs.Staff.ID
		set["staffId"] = rs.Staff.ID
		// Refresh doctor snapshots from the newly resolved record unless the
		// caller supplied explicit overrides in the same request.
		if in.DoctorName == nil {
			doctorName = rs.Staff.FullName
			set["doctorName"] = rs.Staff.FullName
		}
		if in.Specialization == nil {
			set["specialization"] = rs.Staff.Specialization
		}
	}
	if in.DoctorName != nil {
		doctorName = *in.DoctorName
		set["doctorName"] = *in.DoctorName
	}
	if in.Specialization != nil {
		set["specialization"] = *in.Specialization
	}

	if in.Date != nil {
		if !models.ValidDate(*in.Date) {
			return nil, apperr.Validation("Invalid date, use YYYY-MM-DD")
		}
		date = *in.Date
		set["date"] = *in.Date
	}
	if in.Time != nil {
		if !models.ValidTimeSlot(*in.Time) {
			return nil, apperr.Validation("Invalid time slot: " + *in.Time)
		}
		timeSlot = *in.Time
		set["time"] = *in.Time
	}
	if in.Room != nil {
		if !models.ValidRoom(*in.Room) {
			return nil, apperr.Validation("Invalid room: " + *in.Room)
		}
		room = *in.Room
		set["room"] = *in.Room
	}
	if in.Reason != nil {
		set["reason"] = *in.Reason
	}
	if in.Notes != nil {
		set["notes"] = *in.Notes
	}

	if len(set) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	// Re-opening a terminal appointment re-occupies its slot, so it gets
	// the same conflict validation as a reschedule.
	slotChanged := staffID != current.StaffID || date != current.Date ||
		timeSlot != current.Time || room != current.Room || reopening

	var updated *models.Appointment
	if resultingStatus != models.StatusCancelled && slotChanged {
		keys := []string{
			redislock.ClinicianKey(staffID.Hex(), date, timeSlot),
			redislock.RoomKey(room, date, timeSlot),
		}
		err = s.locker.WithSlotLocks(ctx, keys, func(lockCtx context.Context) error {
			if err := s.checkSlotConflicts(lockCtx, staffID, doctorName, room, date, timeSlot, current.ID); err != nil {
				return err
			}
			var uerr error
			updated, uerr = s.repo.Update(lockCtx, current.ID, set)
			return uerr
		})
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return nil, apperr.Conflict("This slot is currently being booked, please retry")
		}
	} else {
		updated, err = s.repo.Update(ctx, current.ID, set)
	}
	if err != nil {
		return nil, err
	}

	if current.Status != models.StatusCancelled && updated.Status == models.StatusCancelled {
		s.notifyCancelled(ctx, updated)
	}
	return updated, nil
}

// UpdateStatus changes only the status, under the same lifecycle rules as
// a full update.
func (s *Service) UpdateStatus(ctx context.Context, ch Channel, actor Actor, id, status string) (*models.Appointment, error) {
	return s.Update(ctx, ch, actor, id, UpdateInput{Status: &status})
}

// Cancel is the patient channel's soft delete. Re-cancelling an already
// cancelled appointment is a no-op success.
func (s *Service) Cancel(ctx context.Context, actor Actor, id string) (*models.Appointment, error) {
	current, err := s.loadForChannel(ctx, ChannelPatient, actor, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.StatusCancelled {
		return current, nil
	}
	if current.Status != models.StatusScheduled {
		return nil, apperr.Forbidden("Only a scheduled appointment can be cancelled")
	}

	updated, err := s.repo.Update(ctx, current.ID, map[string]interface{}{
		"status": models.StatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	s.notifyCancelled(ctx, updated)
	return updated, nil
}

// Delete is the staff channel's hard delete. The patient channel never
// reaches it; routing only exposes soft cancel there.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("Invalid appointment ID")
	}
	return s.repo.Delete(ctx, oid)
}

// loadForChannel loads an appointment and, on the patient channel, runs
// the ownership gate: the caller's own patient record must match the
// appointment's patientRef before anything else happens.
func (s *Service) loadForChannel(ctx context.Context, ch Channel, actor Actor, id string) (*models.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("Invalid appointment ID")
	}

	if ch == ChannelPatient {
		patient, err := s.res.PatientByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		apt, err := s.repo.FindByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if apt.PatientID != patient.ID {
			return nil, apperr.Forbidden("Appointment does not belong to this patient")
		}
		return apt, nil
	}

	return s.repo.FindByID(ctx, oid)
}

// rejectOwnerFields blocks patient-channel bodies that try to reassign the
// appointment to another patient.
func rejectOwnerFields(in UpdateInput) error {
	var fields []string
	if in.PatientRef != nil {
		fields = append(fields, "patientRef")
	}
	if in.PatientName != nil {
		fields = append(fields, "patientName")
	}
	if len(fields) > 0 {
		return apperr.Forbidden("Field(s) not allowed on the patient channel: " + strings.Join(fields, ", "))
	}
	return nil
}

func validateCreate(ch Channel, in CreateInput) error {
	if ch == ChannelStaff && in.PatientRef == "" {
		return apperr.Validation("Patient reference is required")
	}
	if in.StaffRef == "" {
		return apperr.Validation("Doctor reference is required")
	}
	if in.Date == "" || in.Time == "" || in.Room == "" || in.Reason == "" {
		return apperr.Validation("Date, time, room and reason are required")
	}
	if !models.ValidDate(in.Date) {
		return apperr.Validation("Invalid date, use YYYY-MM-DD")
	}
	if !models.ValidTimeSlot(in.Time) {
		return apperr.Validation("Invalid time slot: " + in.Time)
	}
	if !models.ValidRoom(in.Room) {
		return apperr.Validation("Invalid room: " + in.Room)
	}
	return nil
}

// hydrate fills display fields from the live patient/staff records when a
// stored snapshot is empty. Stored snapshots win, so display data stays
// historically accurate after the referenced record changes.
func (s *Service) hydrate(ctx context.Context, appointments []models.Appointment) {
	for i := range appointments {
		apt := &appointments[i]
		if apt.PatientName == "" && !apt.PatientID.IsZero() {
			if rp, err := s.res.Patient(ctx, apt.PatientID.Hex()); err == nil {
				apt.PatientName = rp.Patient.FullName
			}
		}
		if (apt.DoctorName == "" || apt.Specialization == "") && !apt.StaffID.IsZero() {
			if rs, err := s.res.Staff(ctx, apt.StaffID.Hex()); err == nil {
				if apt.DoctorName == "" {
					apt.DoctorName = rs.Staff.FullName
				}
				if apt.Specialization == "" {
					apt.Specialization = rs.Staff.Specialization
				}
			}
		}
	}
}

func (s *Service) notifyCancelled(ctx context.Context, apt *models.Appointment) {
	s.log.Info().
		Str("appointmentId", apt.ID.Hex()).
		Str("date", apt.Date).
		Str("time", apt.Time).
		Msg("appointment cancelled")
	if rp, err := s.res.Patient(ctx, apt.PatientID.Hex()); err == nil {
		s.notifier.AppointmentCancelled(&rp.Patient, apt)
	}
}
