package repository

import (
	"context"
	"errors"

	"github.com/yamdb/api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingColumn averages review scores per title; NULL when there are none.
const ratingColumn = "titles.*, (SELECT CAST(AVG(reviews.score) AS DOUBLE PRECISION) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilter narrows the title list. Zero values are ignored.
type TitleFilter struct {
	GenreSlug    string
	CategorySlug string
	Year         *int
	Name         string
}

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

func (r *TitleRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Select(ratingColumn).Preload("Category").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id")
	})
}

// List returns titles newest first with their rating, category and genres.
func (r *TitleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error) {
	page = page.Normalize()

	q := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.GenreSlug != "" {
		q = q.Where(
			"EXISTS (SELECT 1 FROM title_genres JOIN genres ON genres.id = title_genres.genre_id WHERE title_genres.title_id = titles.id AND genres.slug = ?)",
			filter.GenreSlug,
		)
	}
	if filter.CategorySlug != "" {
		q = q.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", filter.CategorySlug)
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}
	if filter.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var titles []models.Title
	err := r.withRelations(q).
		Order("titles.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (r *TitleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	err := r.withRelations(r.db.WithContext(ctx).Model(&models.Title{})).
		Where("titles.id = ?", id).
		First(&title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &title, nil
}

// Exists is a cheap parent check for nested review routes.
func (r *TitleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts the title and links it to title.Genres, which must already exist.
func (r *TitleRepository) Create(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Category", "Genres.*").Create(title).Error
}

// Update writes the scalar columns and, when genres is non-nil, replaces the genre set.
func (r *TitleRepository) Update(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(title).
			Omit(clause.Associations).
			Select("name", "year", "description", "category_id").
			Updates(map[string]interface{}{
				"name":        title.Name,
				"year":        title.Year,
				"description": title.Description,
				"category_id": title.CategoryID,
			}).Error
		if err != nil {
			return err
		}
		if genres == nil {
			return nil
		}
		return tx.Model(title).Omit("Genres.*").Association("Genres").Replace(genres)
	})
}

// Delete removes the title with its reviews and their comments.
func (r *TitleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, id).Error
	})
}
