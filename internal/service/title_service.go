package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

type TitleService struct {
	titleRepo    *repository.TitleRepository
	categoryRepo *repository.CategoryRepository
	genreRepo    *repository.GenreRepository
	now          func() time.Time
}

func NewTitleService(
	titleRepo *repository.TitleRepository,
	categoryRepo *repository.CategoryRepository,
	genreRepo *repository.GenreRepository,
) *TitleService {
	return &TitleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		now:          time.Now,
	}
}

// TitleInput is the write shape of a title. Category and genres are given by
// slug. On update absent fields are kept; a null year or description clears
// it, and an empty category slug detaches the category.
type TitleInput struct {
	Name        *string          `json:"name"`
	Year        Nullable[int]    `json:"year"`
	Description Nullable[string] `json:"description"`
	Category    *string          `json:"category"`
	Genre       *[]string        `json:"genre"`
}

func (in TitleInput) validate(currentYear int) error {
	return validation.Errors{
		"name": validation.Validate(in.Name, validation.NilOrNotEmpty.Error("name may not be blank"), validation.Length(1, 200)),
		"year": validation.Validate(in.Year.Value,
			validation.Min(0).Error("year must be a positive number"),
			validation.Max(currentYear).Error(fmt.Sprintf("year must not be later than %d", currentYear)),
		),
		"description": validation.Validate(in.Description.Value, validation.Length(0, 400)),
	}.Filter()
}

func (in *TitleInput) normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
}

func (s *TitleService) List(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]models.Title, int64, error) {
	return s.titleRepo.List(ctx, filter, page)
}

func (s *TitleService) Get(ctx context.Context, id uint) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, ErrTitleNotFound
	}
	return title, nil
}

func (s *TitleService) Create(ctx context.Context, in TitleInput) (*models.Title, error) {
	in.normalize()
	if in.Name == nil {
		return nil, fieldError("name", "name is required")
	}
	if err := in.validate(s.now().Year()); err != nil {
		return nil, err
	}

	title := &models.Title{}
	applyTitleInput(title, in)

	if err := s.resolveCategory(ctx, title, in.Category); err != nil {
		return nil, err
	}
	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		logger.Log.Error("Failed to create title", zap.String("name", title.Name), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Title created", zap.Uint("title_id", title.ID), zap.String("name", title.Name))
	return s.Get(ctx, title.ID)
}

func (s *TitleService) Update(ctx context.Context, id uint, in TitleInput) (*models.Title, error) {
	in.normalize()
	if err := in.validate(s.now().Year()); err != nil {
		return nil, err
	}

	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTitleInput(title, in)

	if in.Category != nil {
		if err := s.resolveCategory(ctx, title, in.Category); err != nil {
			return nil, err
		}
	}
	var genres []models.Genre
	if in.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *in.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title, genres); err != nil {
		logger.Log.Error("Failed to update title", zap.Uint("title_id", id), zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the title together with its reviews and their comments.
func (s *TitleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Log.Info("Title deleted", zap.Uint("title_id", id))
	return nil
}

func applyTitleInput(title *models.Title, in TitleInput) {
	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year.Set {
		title.Year = in.Year.Value
	}
	if in.Description.Set {
		title.Description = in.Description.Value
	}
}

func (s *TitleService) resolveCategory(ctx context.Context, title *models.Title, slug *string) error {
	if slug == nil || *slug == "" {
		title.CategoryID = nil
		title.Category = nil
		return nil
	}
	category, err := s.categoryRepo.GetBySlug(ctx, *slug)
	if err != nil {
		return err
	}
	if category == nil {
		return fieldError("category", fmt.Sprintf("category with slug %q does not exist", *slug))
	}
	title.CategoryID = &category.ID
	title.Category = category
	return nil
}

// resolveGenres returns a non-nil slice so that an empty list clears the set on update.
func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	var missing []string
	for _, slug := range slugs {
		if !found[slug] {
			missing = append(missing, slug)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fieldError("genre", fmt.Sprintf("genres do not exist: %s", strings.Join(missing, ", ")))
	}

	if genres == nil {
		genres = []models.Genre{}
	}
	return genres, nil
}
