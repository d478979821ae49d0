package services

import (
	"context"
	"log/slog"
	"time"

	"resto-api/logger"
	"resto-api/models"
	"resto-api/promotions"

	"gorm.io/gorm"
)

type PromotionService interface {
	ListActive(ctx context.Context) ([]models.Promotion, error)
	Evaluable(ctx context.Context, ids []uint) ([]promotions.Promotion, error)
}

type promotionService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromotionService(db *gorm.DB, log *logger.Logger) PromotionService {
	return &promotionService{db: db, log: log}
}

func (s *promotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	now := time.Now().UTC()
	promos := []models.Promotion{}
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("id ASC").
		Find(&promos).Error
	return promos, err
}

// Evaluable loads the given promotions in the order given, or every active
// one when ids is empty. The planner breaks ties by this order. Rows that
// cannot be evaluated are skipped and logged.
func (s *promotionService) Evaluable(ctx context.Context, ids []uint) ([]promotions.Promotion, error) {
	var rows []models.Promotion
	var err error
	if len(ids) == 0 {
		rows, err = s.ListActive(ctx)
	} else {
		rows, err = s.byIDs(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	out := make([]promotions.Promotion, 0, len(rows))
	for _, row := range rows {
		p, err := promotions.FromModel(row)
		if err != nil {
			s.log.Warn("promotion_skipped", logger.RequestID(ctx), err.Error(),
				slog.Uint64("promotion_id", uint64(row.ID)))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// byIDs returns the rows for ids in request order. Unknown and repeated ids
// are dropped.
func (s *promotionService) byIDs(ctx context.Context, ids []uint) ([]models.Promotion, error) {
	var found []models.Promotion
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Promotion, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	rows := make([]models.Promotion, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			rows = append(rows, p)
			delete(byID, id)
		}
	}
	return rows, nil
}
