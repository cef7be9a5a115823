package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/appointment"
)

type CreateMyAppointmentRequest struct {
	StaffRef string `json:"staffRef" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Room     string `json:"room" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
	Notes    string `json:"notes"`
}

// CreateMyAppointment is the patient self-booking endpoint. The owning
// patient is implicit from the token, never from the body.
func (h *Handler) CreateMyAppointment(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreateMyAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), appointment.ChannelPatient, actor, appointment.CreateInput{
		StaffRef: req.StaffRef,
		Date:     req.Date,
		Time:     req.Time,
		Room:     req.Room,
		Reason:   req.Reason,
		Notes:    req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

// GetMyAppointments lists only the caller's own appointments.
func (h *Handler) GetMyAppointments(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	appointments, err := h.Appointments.List(c.Request.Context(), appointment.ChannelPatient, actor, c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetMyAppointment returns one of the caller's own appointments.
func (h *Handler) GetMyAppointment(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	apt, err := h.Appointments.Get(c.Request.Context(), appointment.ChannelPatient, actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// UpdateMyAppointment is the restricted patient update: any field except
// the owning patient reference and its name snapshot, and status may only
// be set to cancelled.
func (h *Handler) UpdateMyAppointment(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	apt, err := h.Appointments.Update(c.Request.Context(), appointment.ChannelPatient, actor, c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// CancelMyAppointment soft-cancels the caller's own appointment. Cancelling
// an already cancelled appointment succeeds without changing anything.
func (h *Handler) CancelMyAppointment(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	apt, err := h.Appointments.Cancel(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully", "appointment": apt})
}
