// Package dives provides database operations for dive records.
//
// This package implements the services.DiveStore interface consumed by the
// interchange engine.
//
// # Usage
//
//	repo := dives.NewRepository(db)
//	all, err := repo.ListAll()
package dives

import (
	"gorm.io/gorm"

	"github.com/tmakela/scubalog/internal/entities"
)

// Repository handles all dive record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new dives repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll retrieves every dive with photos, reverse chronological.
func (r *Repository) ListAll() ([]entities.Dive, error) {
	var dives []entities.Dive
	err := r.db.Preload("Photos").Order("start_time DESC, id DESC").Find(&dives).Error
	return dives, err
}

// ListTitles returns the titles of all stored dives. Title uniqueness is a
// presentation convention enforced at import time, not a database constraint.
func (r *Repository) ListTitles() ([]string, error) {
	var titles []string
	err := r.db.Model(&entities.Dive{}).Order("id ASC").Pluck("title", &titles).Error
	return titles, err
}

// GetByID retrieves a single dive with its photos.
func (r *Repository) GetByID(id uint) (*entities.Dive, error) {
	var dive entities.Dive
	if err := r.db.Preload("Photos").First(&dive, id).Error; err != nil {
		return nil, err
	}
	return &dive, nil
}

// Insert stores a new dive record.
func (r *Repository) Insert(dive *entities.Dive) error {
	return r.db.Create(dive).Error
}

// Count returns the number of stored dives.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Dive{}).Count(&count).Error
	return count, err
}
