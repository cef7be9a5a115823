package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/appointment"
)

// Handler holds everything the HTTP layer needs: the database for the
// auth/profile endpoints and the appointment service for the scheduling
// core.
type Handler struct {
	DB           *mongo.Database
	Appointments *appointment.Service
	Log          zerolog.Logger
}

func NewHandler(db *mongo.Database, appointments *appointment.Service, log zerolog.Logger) *Handler {
	return &Handler{
		DB:           db,
		Appointments: appointments,
		Log:          log,
	}
}

// respondError maps a service error to its HTTP status. Internal causes go
// to the log, never to the response body.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// actorFromContext builds the service actor from the JWT claims the auth
// middleware stored on the context.
func actorFromContext(c *gin.Context) (appointment.Actor, error) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		return appointment.Actor{}, errors.New("invalid user ID in token")
	}
	return appointment.Actor{UserID: userID}, nil
}
