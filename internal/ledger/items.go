package ledger

import (
	"errors"

	"github.com/goncalo-araujo/babyshower/internal/models"

	"gorm.io/gorm"
)

// CreateItemInput carries the fields an admin supplies for a new item.
// Strings arrive already sanitised by the API surface.
type CreateItemInput struct {
	Title       string
	Description string
	ImageURL    string
	ProductURL  string
	PriceTotal  int64
	SortKey     int
	IsGeneric   bool
}

// ItemPatch holds a partial update. Empty strings mean "keep the current
// value"; nil numeric/bool fields likewise.
type ItemPatch struct {
	Title       string
	Description string
	ImageURL    string
	ProductURL  string
	PriceTotal  *int64
	PriceRaised *int64
	SortKey     *int
	IsGeneric   *bool
}

// CreateItem inserts a new registry entry and returns its id.
func (l *Ledger) CreateItem(in CreateItemInput) (uint, error) {
	item := models.Item{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ProductURL:  in.ProductURL,
		PriceTotal:  in.PriceTotal,
		SortKey:     in.SortKey,
		IsGeneric:   in.IsGeneric,
		IsFunded:    in.PriceTotal <= 0,
	}
	if err := l.db.Create(&item).Error; err != nil {
		return 0, wrapStore("insert item", err)
	}
	return item.ID, nil
}

// UpdateItem applies a patch and re-derives the funded flag from whatever
// the prices end up as. Admin edits may lower or raise either side freely;
// the flag always reconciles here.
func (l *Ledger) UpdateItem(id uint, patch ItemPatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStore("load item", err)
		}

		if patch.Title != "" {
			item.Title = patch.Title
		}
		if patch.Description != "" {
			item.Description = patch.Description
		}
		if patch.ImageURL != "" {
			item.ImageURL = patch.ImageURL
		}
		if patch.ProductURL != "" {
			item.ProductURL = patch.ProductURL
		}
		if patch.PriceTotal != nil {
			item.PriceTotal = *patch.PriceTotal
		}
		if patch.PriceRaised != nil {
			item.PriceRaised = *patch.PriceRaised
		}
		if patch.SortKey != nil {
			item.SortKey = *patch.SortKey
		}
		if patch.IsGeneric != nil {
			item.IsGeneric = *patch.IsGeneric
		}
		item.IsFunded = item.PriceRaised >= item.PriceTotal

		if err := tx.Save(&item).Error; err != nil {
			return wrapStore("save item", err)
		}
		return nil
	})
}

// DeleteItem removes the item and all of its contributions.
func (l *Ledger) DeleteItem(id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStore("load item", err)
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.Contribution{}).Error; err != nil {
			return wrapStore("delete contributions", err)
		}
		if err := tx.Delete(&models.Item{}, id).Error; err != nil {
			return wrapStore("delete item", err)
		}
		return nil
	})
}

// GetItem returns one item by id.
func (l *Ledger) GetItem(id uint) (models.Item, error) {
	var item models.Item
	if err := l.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, wrapStore("load item", err)
	}
	return item, nil
}

// ListItems returns all items in display order: generic donation targets
// last, unfunded before funded, then by sort key and creation order.
func (l *Ledger) ListItems() ([]models.Item, error) {
	var items []models.Item
	err := l.db.
		Order("is_generic ASC, is_funded ASC, sort_key ASC, created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrapStore("list items", err)
	}
	return items, nil
}
