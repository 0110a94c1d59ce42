package handler

import (
	"time"

	"github.com/yamdb/api/internal/models"
)

type UserResponse struct {
	ID        uint        `json:"id"`
	Username  *string     `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

func toUserResponses(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// SlugResponse is how categories and genres appear everywhere.
type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryResponses(categories []models.Category) []SlugResponse {
	out := make([]SlugResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, SlugResponse{Name: c.Name, Slug: c.Slug})
	}
	return out
}

func toGenreResponses(genres []models.Genre) []SlugResponse {
	out := make([]SlugResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, SlugResponse{Name: g.Name, Slug: g.Slug})
	}
	return out
}

type TitleResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Year        *int           `json:"year"`
	Rating      *float64       `json:"rating"`
	Description *string        `json:"description"`
	Category    *SlugResponse  `json:"category"`
	Genre       []SlugResponse `json:"genre"`
}

func toTitleResponse(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       toGenreResponses(t.Genres),
	}
	if t.Category != nil {
		resp.Category = &SlugResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return resp
}

func toTitleResponses(titles []models.Title) []TitleResponse {
	out := make([]TitleResponse, 0, len(titles))
	for i := range titles {
		out = append(out, toTitleResponse(&titles[i]))
	}
	return out
}

type ReviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func toReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.DisplayName(),
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func toReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	return out
}

type CommentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func toCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.DisplayName(),
		PubDate: c.PubDate,
	}
}

func toCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}
