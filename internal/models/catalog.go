package models

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"type:varchar(200);not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"type:varchar(200);not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

type Title struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(200);not null;index" json:"name"`
	Year        *int    `json:"year"`
	Description *string `gorm:"type:text" json:"description"`
	CategoryID  *uint   `gorm:"index" json:"-"`

	// Mean review score, filled by queries that select it. Never migrated.
	Rating *float64 `gorm:"->;-:migration" json:"rating"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`
	Genres   []Genre   `gorm:"many2many:title_genres" json:"genre"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
