package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/logger"
	"quizmaster/internal/util"
	"quizmaster/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess = "access"
	tokenTypeBearer = "Bearer"
)

var (
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrInvalidCredentials = domain.NewUnauthorizedError("invalid email or password")
)

// AuthService handles sign up, sign in and access tokens.
type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.TokenResponse, error)
	CreateJWT(user *domain.User) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo   domain.UserRepository
	validator  *validation.Validator
	jwtConfig  config.JWTConfig
	quizConfig config.QuizConfig
	bcryptCost int
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, jwtConfig config.JWTConfig, quizConfig config.QuizConfig) (AuthService, error) {
	if jwtConfig.SecretKey == "" {
		return nil, domain.NewConfigurationError("jwt secret key is not configured")
	}
	if jwtConfig.AccessTokenTTL <= 0 {
		jwtConfig.AccessTokenTTL = 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		validator:  validation.NewValidator(quizConfig.MaxQuestions),
		jwtConfig:  jwtConfig,
		quizConfig: quizConfig,
		bcryptCost: bcrypt.DefaultCost,
	}, nil
}

// SignUp creates the account and signs the new user in.
func (s *authServiceImpl) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error) {
	if errs := s.validator.ValidateSignUp(req.Email, req.Password, req.Name); len(errs) > 0 {
		return nil, errs
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(email, strings.TrimSpace(req.Name), string(hash), s.quizConfig.DefaultGenerationLimit)
	user.ID = util.NewULID()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}
	logger.Get().Info("New user signed up", zap.String("userID", user.ID), zap.String("email", user.Email))

	return s.issueToken(user)
}

// SignIn checks the password and returns an access token. Unknown emails
// and wrong passwords get the same error.
func (s *authServiceImpl) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.TokenResponse, error) {
	if errs := s.validator.ValidateSignIn(req.Email, req.Password); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Get().Debug("Password mismatch on sign in", zap.String("userID", user.ID))
		return nil, ErrInvalidCredentials
	}
	logger.Get().Info("User signed in", zap.String("userID", user.ID))

	return s.issueToken(user)
}

func (s *authServiceImpl) issueToken(user *domain.User) (*dto.TokenResponse, error) {
	token, err := s.CreateJWT(user)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.jwtConfig.AccessTokenTTL / time.Second),
	}, nil
}

func (s *authServiceImpl) CreateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
