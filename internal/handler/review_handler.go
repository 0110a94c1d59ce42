package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/middleware"
	"github.com/yamdb/api/internal/service"
)

// ReviewHandler serves reviews and comments nested under a title. Ownership
// is decided by the service, which sees the stored author.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func reviewPath(c *gin.Context) (titleID, reviewID uint, ok bool) {
	if titleID, ok = pathID(c, "title_id"); !ok {
		return 0, 0, false
	}
	if reviewID, ok = pathID(c, "review_id"); !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

// GET /titles/:title_id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	page, ok := pageParams(c)
	if !ok {
		return
	}

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), titleID, page)
	if err != nil {
		respondError(c, "List reviews", err)
		return
	}
	respondList(c, total, toReviewResponses(reviews))
}

// POST /titles/:title_id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req service.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), middleware.ActorFrom(c), titleID, req)
	if err != nil {
		respondError(c, "Create review", err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

// GET /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, "Get review", err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// PATCH /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req service.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, "Update review", err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// DELETE /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID); err != nil {
		respondError(c, "Delete review", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /titles/:title_id/reviews/:review_id/comments
func (h *ReviewHandler) ListComments(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	page, ok := pageParams(c)
	if !ok {
		return
	}

	comments, total, err := h.reviewService.ListComments(c.Request.Context(), titleID, reviewID, page)
	if err != nil {
		respondError(c, "List comments", err)
		return
	}
	respondList(c, total, toCommentResponses(comments))
}

// POST /titles/:title_id/reviews/:review_id/comments
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	comment, err := h.reviewService.CreateComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, "Create comment", err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GET /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.reviewService.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, "Get comment", err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// PATCH /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	comment, err := h.reviewService.UpdateComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID, req)
	if err != nil {
		respondError(c, "Update comment", err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DELETE /titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID); err != nil {
		respondError(c, "Delete comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}
