package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitr/internal/services"
)

// FeedbackHandler handles feedback submission.
type FeedbackHandler struct {
	feedbackService services.FeedbackServicer
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService services.FeedbackServicer) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// FeedbackRequest represents the feedback form.
type FeedbackRequest struct {
	Message string `json:"message" binding:"max=2000"`
	Rating  int    `json:"rating"`
}

// SubmitFeedback handles a feedback submission
// @Summary     Send feedback
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FeedbackRequest true "Message and rating 1-5"
// @Success     201 {object} models.Feedback "Feedback stored"
// @Failure     400 {object} ErrorResponse "Empty message or invalid rating"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Failed to submit feedback"
// @Router      /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), sess, req.Message, req.Rating)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}
