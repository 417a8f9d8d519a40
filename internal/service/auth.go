package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/types"
)

type AuthService struct {
	db         *gorm.DB
	jwtSecret  string
	expiration time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, expiration time.Duration) *AuthService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &AuthService{
		db:         db,
		jwtSecret:  jwtSecret,
		expiration: expiration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL is the default avatar of a new account.
func gravatarURL(email string) string {
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=250&d=identicon", md5.Sum([]byte(normalizeEmail(email))))
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, "", ErrEmailInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Avatar:       gravatarURL(email),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, &user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials and issues a fresh token, replacing the previous one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrWrongCredentials
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrWrongCredentials
	}

	token, err := s.issueToken(ctx, &user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Logout invalidates the current token of userID.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("token", "")
	if res.Error != nil {
		return fmt.Errorf("failed to logout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("token", token).Error; err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	user.Token = token
	return token, nil
}

// GenerateToken signs an HS256 token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry, and that the token is the
// one currently stored for the user (so logged out tokens are rejected).
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, &Error{Kind: ErrInvalidToken, Msg: "Not authorized"}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "token").First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: ErrInvalidToken, Msg: "Not authorized"}
		}
		return nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if user.Token == "" || user.Token != tokenString {
		return nil, &Error{Kind: ErrInvalidToken, Msg: "Not authorized"}
	}

	return claims, nil
}
