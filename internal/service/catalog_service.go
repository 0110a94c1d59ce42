package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CatalogService manages categories and genres. Both are addressed by slug.
type CatalogService struct {
	categoryRepo *repository.CategoryRepository
	genreRepo    *repository.GenreRepository
}

func NewCatalogService(categoryRepo *repository.CategoryRepository, genreRepo *repository.GenreRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

// SlugInput creates a category or a genre.
type SlugInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (in SlugInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&in.Slug,
			validation.Required.Error("slug is required"),
			validation.Length(1, 50),
			validation.Match(slugRegex).Error("letters, digits, underscores or hyphens only"),
		),
	)
}

func (in *SlugInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, page repository.Page) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, search, page)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in SlugInput) (*models.Category, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fieldError("slug", "category with this slug already exists")
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("slug", "category with this slug already exists")
		}
		return nil, err
	}

	logger.Log.Info("Category created", zap.String("slug", category.Slug))
	return category, nil
}

// DeleteCategory removes the category; its titles lose the reference but stay.
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}

	logger.Log.Info("Category deleted", zap.String("slug", slug))
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, page repository.Page) ([]models.Genre, int64, error) {
	return s.genreRepo.List(ctx, search, page)
}

func (s *CatalogService) CreateGenre(ctx context.Context, in SlugInput) (*models.Genre, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.genreRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fieldError("slug", "genre with this slug already exists")
	}

	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("slug", "genre with this slug already exists")
		}
		return nil, err
	}

	logger.Log.Info("Genre created", zap.String("slug", genre.Slug))
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	genre, err := s.genreRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if genre == nil {
		return ErrGenreNotFound
	}
	if err := s.genreRepo.Delete(ctx, genre.ID); err != nil {
		return err
	}

	logger.Log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}
