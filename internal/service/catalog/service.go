package catalog

import (
	"context"
	"encoding/json"
	"time"

	"loteria-service/internal/model"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	cacheKey = "catalog:cards"
	cacheTTL = 12 * time.Hour
)

// Service owns the fixed card catalog. The deck is seeded once at bootstrap
// and read-only afterwards, so listing goes through a Redis snapshot when a
// client is available.
type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

// EnsureSeeded inserts any catalog card missing by ordinal. Idempotent.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	for _, entry := range deck {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&model.Card{}).
			Where("ordinal = ?", entry.Ordinal).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		card := model.Card{
			Ordinal:  entry.Ordinal,
			Name:     entry.Name,
			ImageRef: entry.ImageRef,
		}
		if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListCards(ctx context.Context) ([]model.Card, error) {
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cards []model.Card
			if jsonErr := json.Unmarshal([]byte(data), &cards); jsonErr == nil {
				return cards, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	var cards []model.Card
	if err := s.db.WithContext(ctx).Order("ordinal").Find(&cards).Error; err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(cards); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return cards, nil
}

func (s *Service) GetCard(ctx context.Context, id int64) (*model.Card, error) {
	var card model.Card
	if err := s.db.WithContext(ctx).First(&card, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}
