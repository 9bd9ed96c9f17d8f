package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loteria-service/internal/config"
	"loteria-service/internal/model"
	pkgAuth "loteria-service/pkg/auth"
	appErr "loteria-service/pkg/errors"
	"loteria-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

type LoginResult struct {
	Token    string     `json:"token"`
	ExpireAt time.Time  `json:"expireAt"`
	User     model.User `json:"user"`
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

func (s *Service) Register(ctx context.Context, email, password, nickname string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !isValidEmail(email) || len(password) < minPasswordLength {
		return nil, appErr.ErrInvalidCredentials
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, appErr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     strings.TrimSpace(nickname),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Int64("userID", user.ID))
	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, appErr.ErrInvalidCredentials
	}

	token, tokenID, err := pkgAuth.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, buildSessionKey(user.ID), tokenID, ttl).Err(); err != nil {
			return nil, err
		}
	}

	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(ttl),
		User:     user,
	}, nil
}

// Logout drops the active session, revoking the outstanding token.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, buildSessionKey(userID)).Err()
}

// SessionActive reports whether tokenID is the user's current session. With
// no Redis client configured every parsed token is accepted.
func (s *Service) SessionActive(ctx context.Context, userID int64, tokenID string) (bool, error) {
	if s.rdb == nil {
		return true, nil
	}
	stored, err := s.rdb.Get(ctx, buildSessionKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return stored == tokenID, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func buildSessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email, " ")
}
