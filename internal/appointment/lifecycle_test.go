package appointment

import (
	"testing"

	"github.com/harentsoaR/clinic-api/internal/apperr"
	"github.com/harentsoaR/clinic-api/internal/models"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name      string
		ch        Channel
		current   string
		requested string
		wantKind  apperr.Kind
		wantOK    bool
	}{
		{"staff any status", ChannelStaff, models.StatusScheduled, models.StatusCompleted, 0, true},
		{"staff cancel", ChannelStaff, models.StatusScheduled, models.StatusCancelled, 0, true},
		{"staff reopen terminal", ChannelStaff, models.StatusCompleted, models.StatusScheduled, 0, true},
		{"staff unknown status", ChannelStaff, models.StatusScheduled, "archived", apperr.KindValidation, false},
		{"patient cancel scheduled", ChannelPatient, models.StatusScheduled, models.StatusCancelled, 0, true},
		{"patient re-cancel", ChannelPatient, models.StatusCancelled, models.StatusCancelled, 0, true},
		{"patient complete", ChannelPatient, models.StatusScheduled, models.StatusCompleted, apperr.KindForbidden, false},
		{"patient no-show", ChannelPatient, models.StatusScheduled, models.StatusNoShow, apperr.KindForbidden, false},
		{"patient reopen", ChannelPatient, models.StatusCancelled, models.StatusScheduled, apperr.KindForbidden, false},
		{"patient cancel completed", ChannelPatient, models.StatusCompleted, models.StatusCancelled, apperr.KindForbidden, false},
		{"patient unknown status", ChannelPatient, models.StatusScheduled, "archived", apperr.KindValidation, false},
	}

	for _, tc := range cases {
		err := validateTransition(tc.ch, tc.current, tc.requested)
		if tc.wantOK {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !apperr.IsKind(err, tc.wantKind) {
			t.Fatalf("%s: expected kind %v, got %v", tc.name, tc.wantKind, err)
		}
	}
}

func TestIsReopening(t *testing.T) {
	if !isReopening(models.StatusCancelled, models.StatusScheduled) {
		t.Fatal("cancelled -> scheduled is a re-open")
	}
	if !isReopening(models.StatusNoShow, models.StatusScheduled) {
		t.Fatal("no-show -> scheduled is a re-open")
	}
	if isReopening(models.StatusScheduled, models.StatusScheduled) {
		t.Fatal("scheduled -> scheduled is not a re-open")
	}
	if isReopening(models.StatusCompleted, models.StatusCancelled) {
		t.Fatal("terminal -> terminal is not a re-open")
	}
}
