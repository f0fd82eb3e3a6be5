package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fridgechef/backend/internal/apperr"
	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgUserRequired   = "유저 정보 필요"
	msgUserNotFound   = "존재하지 않는 유저"
	msgBadCredentials = "아이디/비번 불일치"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Signup(ctx context.Context, req *types.SignupRequest) (*models.User, string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, "", apperr.Input("username and password are required")
	}

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, "", apperr.Unexpected(err)
	}
	if count > 0 {
		return nil, "", apperr.Input("이미 존재하는 아이디입니다.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Unexpected(err)
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.Input("이미 존재하는 아이디입니다.")
		}
		return nil, "", apperr.Unexpected(err)
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Auth(msgBadCredentials)
		}
		return nil, "", apperr.Unexpected(err)
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Auth(msgBadCredentials)
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperr.Unexpected(err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Message: "invalid token", Err: err}
	}
	if !token.Valid || claims.Username == "" {
		return nil, apperr.Auth("invalid token")
	}
	return claims, nil
}

func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findUser(ctx, s.db, username)
}

// findUser resolves a username to a user, mapping a blank name to an input
// error and an unknown one to not found.
func findUser(ctx context.Context, db *gorm.DB, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Input(msgUserRequired)
	}
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(msgUserNotFound)
		}
		return nil, apperr.Unexpected(err)
	}
	return &user, nil
}
