package ledger

import (
	"errors"

	"github.com/goncalo-araujo/babyshower/internal/models"

	"gorm.io/gorm"
)

// ContributionResult reports what a contribution actually did. AppliedAmount
// may be less than requested when the pledge was clipped to the remainder.
type ContributionResult struct {
	ContributionID uint
	AppliedAmount  int64
	NewRaised      int64
	IsFunded       bool
}

// AddContribution applies a pledge to an item. The amount is clipped so the
// raised total never passes the target; the contribution row stores the
// clipped amount. Insert and aggregate update commit in one transaction.
func (l *Ledger) AddContribution(itemID uint, name, message, identity string, amount int64) (ContributionResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res ContributionResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStore("load item", err)
		}
		if item.IsFunded {
			return ErrAlreadyFunded
		}

		remaining := item.PriceTotal - item.PriceRaised
		if remaining < 0 {
			remaining = 0
		}
		applied := amount
		if applied > remaining {
			applied = remaining
		}
		newRaised := item.PriceRaised + applied
		funded := newRaised >= item.PriceTotal

		contribution := models.Contribution{
			ItemID:   item.ID,
			Name:     name,
			Identity: identity,
			Amount:   applied,
			Message:  message,
		}
		if err := tx.Create(&contribution).Error; err != nil {
			return wrapStore("insert contribution", err)
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"price_raised": newRaised,
			"is_funded":    funded,
		}).Error; err != nil {
			return wrapStore("update item", err)
		}

		res = ContributionResult{
			ContributionID: contribution.ID,
			AppliedAmount:  applied,
			NewRaised:      newRaised,
			IsFunded:       funded,
		}
		return nil
	})
	if err != nil {
		return ContributionResult{}, err
	}
	return res, nil
}

// CancelContribution removes a pledge and gives the amount back to the item.
// Owner authority only matches the caller's own rows; a foreign contribution
// id reports ErrNotFound, indistinguishable from a nonexistent one. The
// raised amount floors at zero and the funded flag is always reset, since a
// cancellation never leaves an item funded, even when the arithmetic alone
// would still clear the threshold.
func (l *Ledger) CancelContribution(contributionID uint, identity string, authority Authority) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", contributionID)
		if authority != AuthorityAdmin {
			q = q.Where("identity = ?", identity)
		}

		var contribution models.Contribution
		if err := q.First(&contribution).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStore("load contribution", err)
		}

		var item models.Item
		if err := tx.First(&item, contribution.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return wrapStore("load item", err)
		}

		newRaised := item.PriceRaised - contribution.Amount
		if newRaised < 0 {
			newRaised = 0
		}

		if err := tx.Delete(&models.Contribution{}, contribution.ID).Error; err != nil {
			return wrapStore("delete contribution", err)
		}
		return tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"price_raised": newRaised,
			"is_funded":    false,
		}).Error
	})
}

// ContributionWithItem is a contribution joined with its item's title, for
// the admin listing and exports.
type ContributionWithItem struct {
	models.Contribution
	ItemTitle string
}

// ListContributions returns every contribution joined with its item title,
// newest first.
func (l *Ledger) ListContributions() ([]ContributionWithItem, error) {
	var rows []ContributionWithItem
	err := l.db.Model(&models.Contribution{}).
		Select("contributions.*, items.title AS item_title").
		Joins("JOIN items ON items.id = contributions.item_id").
		Order("contributions.created_at DESC, contributions.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStore("list contributions", err)
	}
	return rows, nil
}

// ContributionsByIdentity returns the caller's own contributions, matched by
// identity token. An empty token matches nothing.
func (l *Ledger) ContributionsByIdentity(identity string) ([]ContributionWithItem, error) {
	if identity == "" {
		return nil, nil
	}
	var rows []ContributionWithItem
	err := l.db.Model(&models.Contribution{}).
		Select("contributions.*, items.title AS item_title").
		Joins("JOIN items ON items.id = contributions.item_id").
		Where("contributions.identity = ?", identity).
		Order("contributions.created_at ASC, contributions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStore("list own contributions", err)
	}
	return rows, nil
}
