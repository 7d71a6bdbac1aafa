package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftsphere/marketplace/internal/hash"
	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/repo"
	"github.com/craftsphere/marketplace/internal/tokens"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Service struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type RegisterInput struct {
	Username string
	Name     string
	Email    string
	MobileNo string
	Address  string
	Password string
	Role     string
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleArtisan, models.RoleCustomer:
		return true
	}
	return false
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" || in.Name == "" || in.MobileNo == "" {
		return nil, fmt.Errorf("%w: username, name, email, mobile_no and password required", ErrValidation)
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !validRole(in.Role) {
		return nil, fmt.Errorf("%w: %q is not a valid role", ErrValidation, in.Role)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		MobileNo:     in.MobileNo,
		Address:      in.Address,
		PasswordHash: pwHash,
		Role:         in.Role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

func (s *Service) CreateRefreshToken(id string, refreshExp time.Time) (string, error) {
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
}

// Refresh rotates the token pair: the presented refresh token must
// parse, still be on record and unrevoked; it is revoked and a fresh
// pair issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	stored, err := s.Repo.RefreshTokenByHash(ctx, tokens.Sha256Hex(refreshToken))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if stored.ExpiresAt < time.Now().UTC().Unix() {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.RevokeRefreshToken(ctx, stored.TokenHash); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	now := time.Now().UTC()
	accessExp := now.Add(AccessTTL)
	refreshExp := now.Add(RefreshTTL)

	accessToken, err := s.CreateAccessToken(user.Role, user.ID.String(), accessExp)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	refreshToken, err := s.CreateRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	if err := s.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(refreshToken),
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
