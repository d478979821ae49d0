package services

import (
	"resto-api/models"

	"gorm.io/gorm"
)

// SnapshotStore freezes live dishes into insert-only snapshots. Callers check
// that the dish may be ordered before freezing it.
type SnapshotStore interface {
	Freeze(db *gorm.DB, dish models.Dish) (models.DishSnapshot, error)
}

type snapshotStore struct{}

func NewSnapshotStore() SnapshotStore {
	return snapshotStore{}
}

func (snapshotStore) Freeze(db *gorm.DB, dish models.Dish) (models.DishSnapshot, error) {
	dishID := dish.ID
	snapshot := models.DishSnapshot{
		DishID:      &dishID,
		Name:        dish.Name,
		Price:       dish.Price,
		Description: dish.Description,
		Image:       dish.Image,
		Status:      dish.Status,
	}
	if err := db.Create(&snapshot).Error; err != nil {
		return models.DishSnapshot{}, err
	}
	return snapshot, nil
}
