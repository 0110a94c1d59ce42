package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/policy"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService handles reviews and their comments. Reads are public; writes
// go through the policy with the stored author as the ownership fact.
type ReviewService struct {
	titleRepo   *repository.TitleRepository
	reviewRepo  *repository.ReviewRepository
	commentRepo *repository.CommentRepository
}

func NewReviewService(
	titleRepo *repository.TitleRepository,
	reviewRepo *repository.ReviewRepository,
	commentRepo *repository.CommentRepository,
) *ReviewService {
	return &ReviewService{
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
	}
}

type ReviewInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

var scoreRange = validation.By(func(value interface{}) error {
	if score, ok := value.(*int); ok && score != nil && (*score < models.MinScore || *score > models.MaxScore) {
		return fmt.Errorf("score must be between %d and %d", models.MinScore, models.MaxScore)
	}
	return nil
})

func (in ReviewInput) validateCreate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required.Error("text is required")),
		validation.Field(&in.Score, validation.NotNil.Error("score is required"), scoreRange),
	)
}

func (in ReviewInput) validateUpdate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.NilOrNotEmpty.Error("text may not be blank")),
		validation.Field(&in.Score, scoreRange),
	)
}

type CommentInput struct {
	Text *string `json:"text"`
}

func (in CommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required.Error("text is required")),
	)
}

func trimText(text *string) *string {
	if text == nil {
		return nil
	}
	t := strings.TrimSpace(*text)
	return &t
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID uint) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID uint, page repository.Page) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page)
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// CreateReview records actor's review of the title. The author always comes
// from the actor, never from the input.
func (s *ReviewService) CreateReview(ctx context.Context, actor policy.Actor, titleID uint, in ReviewInput) (*models.Review, error) {
	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionCreate, Resource: policy.ResourceDiscussion}); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	in.Text = trimText(in.Text)
	if err := in.validateCreate(); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     *in.Text,
		Score:    *in.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		logger.Log.Error("Failed to create review",
			zap.Uint("title_id", titleID),
			zap.Uint("author_id", actor.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("title_id", titleID),
		zap.Uint("author_id", actor.UserID),
		zap.Int("score", review.Score),
	)
	return s.GetReview(ctx, titleID, review.ID)
}

// loadReviewForWrite fetches the review and checks that actor may change it.
func (s *ReviewService) loadReviewForWrite(ctx context.Context, actor policy.Actor, action policy.Action, titleID, reviewID uint) (*models.Review, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	err = policy.Evaluate(policy.Request{
		Actor:    actor,
		Action:   action,
		Resource: policy.ResourceDiscussion,
		IsOwner:  actor.Owns(review.AuthorID),
	})
	if err != nil {
		logger.Log.Warn("Review write denied",
			zap.Uint("review_id", reviewID),
			zap.Uint("user_id", actor.UserID),
			zap.String("action", string(action)),
		)
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint, in ReviewInput) (*models.Review, error) {
	review, err := s.loadReviewForWrite(ctx, actor, policy.ActionUpdate, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	in.Text = trimText(in.Text)
	if err := in.validateUpdate(); err != nil {
		return nil, err
	}
	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes the review and its comments.
func (s *ReviewService) DeleteReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint) error {
	if _, err := s.loadReviewForWrite(ctx, actor, policy.ActionDelete, titleID, reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	logger.Log.Info("Review deleted", zap.Uint("review_id", reviewID), zap.Uint("user_id", actor.UserID))
	return nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID uint, page repository.Page) ([]models.Comment, int64, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, page)
}

// GetComment resolves the full title/review/comment path; a comment reached
// through the wrong review or title is not found.
func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, actor policy.Actor, titleID, reviewID uint, in CommentInput) (*models.Comment, error) {
	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionCreate, Resource: policy.ResourceDiscussion}); err != nil {
		return nil, err
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	in.Text = trimText(in.Text)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Text:     *in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.Log.Error("Failed to create comment", zap.Uint("review_id", reviewID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("review_id", reviewID),
		zap.Uint("author_id", actor.UserID),
	)
	return s.GetComment(ctx, titleID, reviewID, comment.ID)
}

func (s *ReviewService) loadCommentForWrite(ctx context.Context, actor policy.Actor, action policy.Action, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	err = policy.Evaluate(policy.Request{
		Actor:    actor,
		Action:   action,
		Resource: policy.ResourceDiscussion,
		IsOwner:  actor.Owns(comment.AuthorID),
	})
	if err != nil {
		logger.Log.Warn("Comment write denied",
			zap.Uint("comment_id", commentID),
			zap.Uint("user_id", actor.UserID),
			zap.String("action", string(action)),
		)
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint, in CommentInput) (*models.Comment, error) {
	comment, err := s.loadCommentForWrite(ctx, actor, policy.ActionUpdate, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	in.Text = trimText(in.Text)
	if in.Text == nil {
		return comment, nil
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	comment.Text = *in.Text

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint) error {
	if _, err := s.loadCommentForWrite(ctx, actor, policy.ActionDelete, titleID, reviewID, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	logger.Log.Info("Comment deleted", zap.Uint("comment_id", commentID), zap.Uint("user_id", actor.UserID))
	return nil
}
