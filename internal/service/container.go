package service

import (
	"context"

	"loteria-service/internal/config"
	"loteria-service/internal/service/auth"
	"loteria-service/internal/service/catalog"
	"loteria-service/internal/service/game"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Game    *game.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	c := &Container{
		Auth:    auth.NewService(db, rdb),
		Catalog: catalog.NewService(db, rdb),
		Game:    game.NewService(db),
	}
	if config.GlobalConfig != nil {
		c.Game.SetJoinCodeLength(config.GlobalConfig.Game.JoinCodeLength)
	}
	return c
}

func (c *Container) Start(ctx context.Context) error {
	return c.Catalog.EnsureSeeded(ctx)
}
