package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/appointment"
)

type CreateAppointmentRequest struct {
	PatientRef string `json:"patientRef" binding:"required"`
	StaffRef   string `json:"staffRef" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Room       string `json:"room" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	Notes      string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PatientRef     *string `json:"patientRef,omitempty"`
	PatientName    *string `json:"patientName,omitempty"`
	StaffRef       *string `json:"staffRef,omitempty"`
	DoctorName     *string `json:"doctorName,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Date           *string `json:"date,omitempty"`
	Time           *string `json:"time,omitempty"`
	Room           *string `json:"room,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	Status         *string `json:"status,omitempty"`
}

func (r UpdateAppointmentRequest) toInput() appointment.UpdateInput {
	return appointment.UpdateInput{
		PatientRef:     r.PatientRef,
		PatientName:    r.PatientName,
		StaffRef:       r.StaffRef,
		DoctorName:     r.DoctorName,
		Specialization: r.Specialization,
		Date:           r.Date,
		Time:           r.Time,
		Room:           r.Room,
		Reason:         r.Reason,
		Notes:          r.Notes,
		Status:         r.Status,
	}
}

// CreateAppointment books an appointment on behalf of a patient referenced
// by id or code. Staff/admin only.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), appointment.ChannelStaff, appointment.Actor{}, appointment.CreateInput{
		PatientRef: req.PatientRef,
		StaffRef:   req.StaffRef,
		Date:       req.Date,
		Time:       req.Time,
		Room:       req.Room,
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

// GetAppointments lists appointments, optionally filtered by exact date
// (e.g. /api/appointments?date=2025-01-15).
func (h *Handler) GetAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context(), appointment.ChannelStaff, appointment.Actor{}, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetAppointment returns a single appointment by id.
func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.Appointments.Get(c.Request.Context(), appointment.ChannelStaff, appointment.Actor{}, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// UpdateAppointment applies any subset of mutable fields, status included.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Appointments.Update(c.Request.Context(), appointment.ChannelStaff, appointment.Actor{}, c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// UpdateAppointmentStatus changes only the status.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Appointments.UpdateStatus(c.Request.Context(), appointment.ChannelStaff, appointment.Actor{}, c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// DeleteAppointment hard-deletes an appointment. There is no patient-facing
// counterpart; patients only get soft cancel.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.Appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
