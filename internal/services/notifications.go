package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/models"
)

// NotificationService sends booking and cancellation SMS via Textbelt.
type NotificationService struct {
	log zerolog.Logger
}

func NewNotificationService(log zerolog.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// AppointmentBooked texts the patient a confirmation. Fire and forget.
func (s *NotificationService) AppointmentBooked(patient *models.Patient, apt *models.Appointment) {
	if patient.Phone == "" {
		s.log.Debug().Str("patientId", patient.ID.Hex()).Msg("SMS not sent: patient has no phone number")
		return
	}

	smsBody := fmt.Sprintf(
		"Appointment confirmed with Dr. %s in room %s on %s at %s.",
		apt.DoctorName, apt.Room, apt.Date, apt.Time,
	)
	go s.sendSms(patient.Phone, smsBody)
}

// AppointmentCancelled texts the patient that the slot was released.
func (s *NotificationService) AppointmentCancelled(patient *models.Patient, apt *models.Appointment) {
	if patient.Phone == "" {
		return
	}

	smsBody := fmt.Sprintf(
		"Your appointment with Dr. %s on %s at %s has been cancelled.",
		apt.DoctorName, apt.Date, apt.Time,
	)
	go s.sendSms(patient.Phone, smsBody)
}

func (s *NotificationService) sendSms(phone, message string) {
	// Textbelt free key allows 1 SMS per day. A paid key goes in .env.
	textbeltKey := os.Getenv("TEXTBELT_API_KEY")

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     textbeltKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("failed to send Textbelt request")
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		s.log.Error().Str("phone", phone).Str("reason", errorMsg).Msg("failed to send SMS via Textbelt")
		return
	}
	s.log.Info().Str("phone", phone).Msg("SMS sent via Textbelt")
}
