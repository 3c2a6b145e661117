package services

import (
	"context"
	"testing"

	"fitr/internal/models"
	"fitr/internal/testutil"
)

func TestSubmitFeedback(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		env := setupEnv(t)
		svc := NewFeedbackService(env.gw)

		fb, err := svc.Submit(context.Background(), env.sess, "  Love the charts ", 5)
		testutil.AssertNoError(t, err)
		if fb.Message != "Love the charts" || fb.Rating != 5 || fb.UserID != env.user.ID {
			t.Errorf("unexpected feedback %+v", fb)
		}

		var count int64
		env.db.Model(&models.Feedback{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 stored feedback, got %d", count)
		}
	})

	tests := []struct {
		name    string
		message string
		rating  int
		code    string
	}{
		{"empty_message", "   ", 3, "EMPTY_MESSAGE"},
		{"rating_too_low", "ok", 0, "INVALID_RATING"},
		{"rating_too_high", "ok", 6, "INVALID_RATING"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setupEnv(t)
			svc := NewFeedbackService(env.gw)

			_, err := svc.Submit(context.Background(), env.sess, tc.message, tc.rating)
			testutil.AssertAppError(t, err, tc.code)
			if env.gw.count("CreateFeedback") != 0 {
				t.Error("validation errors must not reach the gateway")
			}
		})
	}
}
