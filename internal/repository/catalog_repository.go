package repository

import (
	"context"
	"errors"

	"github.com/yamdb/api/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository stores categories. Titles only reference them weakly.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context, search string, page Page) ([]models.Category, int64, error) {
	var categories []models.Category
	total, err := listNamed(r.db.WithContext(ctx).Model(&models.Category{}), search, page, &categories)
	return categories, total, err
}

// Delete removes the category and detaches its titles; the titles survive.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Title{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *GenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

// GetBySlugs returns the genres matching slugs, in no particular order.
func (r *GenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error
	return genres, err
}

func (r *GenreRepository) List(ctx context.Context, search string, page Page) ([]models.Genre, int64, error) {
	var genres []models.Genre
	total, err := listNamed(r.db.WithContext(ctx).Model(&models.Genre{}), search, page, &genres)
	return genres, total, err
}

// Delete removes the genre and its links to titles.
func (r *GenreRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Genre{}, id).Error
	})
}

func listNamed(q *gorm.DB, search string, page Page, dest interface{}) (int64, error) {
	page = page.Normalize()
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	err := q.Order("id").Limit(page.Limit).Offset(page.Offset).Find(dest).Error
	return total, err
}
