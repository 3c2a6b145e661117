package services

import (
	"context"
	"strings"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/session"
)

const (
	minRating = 1
	maxRating = 5
)

// feedbackService handles feedback submission.
type feedbackService struct {
	gw gateway.Gateway
}

// NewFeedbackService creates a new FeedbackServicer.
func NewFeedbackService(gw gateway.Gateway) FeedbackServicer {
	return &feedbackService{gw: gw}
}

// Submit stores a trimmed, non-empty message with a 1..5 rating.
func (s *feedbackService) Submit(ctx context.Context, sess session.Session, message string, rating int) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	if rating < minRating || rating > maxRating {
		return nil, apperrors.ErrInvalidRating
	}

	feedback, err := s.gw.CreateFeedback(ctx, sess, message, rating)
	if err != nil {
		return nil, failed("submit feedback", err)
	}
	return feedback, nil
}
