package authService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/stocks_portfolio_api/config"
	"github.com/KotFed0t/stocks_portfolio_api/data/repository"
	"github.com/KotFed0t/stocks_portfolio_api/data/session"
	"github.com/KotFed0t/stocks_portfolio_api/internal/converter/dbConverter"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/service"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	InsertUser(ctx context.Context, firstname, lastname, email, passwordHash string) (userID int64, err error)
	GetUserByEmail(ctx context.Context, email string) (dbModel.User, error)
	GetUserByID(ctx context.Context, userID int64) (dbModel.User, error)
}

type Session interface {
	SetRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID int64) error
}

type AuthService struct {
	cfg     *config.Config
	repo    Repository
	session Session
}

func New(cfg *config.Config, repo Repository, session Session) *AuthService {
	return &AuthService{cfg: cfg, repo: repo, session: session}
}

type claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) signToken(user model.User, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	})
	return token.SignedString([]byte(secret))
}

func (s *AuthService) parseToken(tokenString, secret string) (claims, error) {
	parsed := claims{}
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return claims{}, service.ErrInvalidToken
	}
	return parsed, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	accessToken, err := s.signToken(user, s.cfg.JWT.AccessSecret, s.cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("can't sign access token", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signToken(user, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshExpiration)
	if err != nil {
		slog.Error("can't sign refresh token", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.TokenPair{}, err
	}

	err = s.session.SetRefreshToken(ctx, user.ID, refreshToken)
	if err != nil {
		slog.Error("can't save refresh token", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) SignUp(ctx context.Context, firstname, lastname, email, password string) (model.AuthResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.SignUp"

	slog.Debug("SignUp start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	defer func() {
		slog.Debug("SignUp finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	}()

	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("can't hash password", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthResult{}, err
	}

	userID, err := s.repo.InsertUser(ctx, firstname, lastname, email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.AuthResult{}, service.ErrAlreadyExists
		}
		slog.Error("got error from repo.InsertUser", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthResult{}, err
	}

	user := model.User{ID: userID, Firstname: firstname, Lastname: lastname, Email: email}

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (model.AuthResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.SignIn"

	slog.Debug("SignIn start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	defer func() {
		slog.Debug("SignIn finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", email))
	}()

	email = strings.ToLower(strings.TrimSpace(email))

	dbUser, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.AuthResult{}, service.ErrInvalidCredentials
		}
		slog.Error("got error from repo.GetUserByEmail", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(password)); err != nil {
		return model.AuthResult{}, service.ErrInvalidCredentials
	}

	user := dbConverter.ToUser(dbUser)

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates the token pair. The presented refresh token must
// both verify and match the stored copy for that user, a rotated-out
// token is unusable even before it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AuthResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Refresh"

	slog.Debug("Refresh start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Refresh finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	parsed, err := s.parseToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return model.AuthResult{}, service.ErrInvalidToken
	}

	stored, err := s.session.GetRefreshToken(ctx, parsed.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.AuthResult{}, service.ErrInvalidToken
		}
		slog.Error("got error from session.GetRefreshToken", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthResult{}, err
	}

	if stored != refreshToken {
		return model.AuthResult{}, service.ErrInvalidToken
	}

	dbUser, err := s.repo.GetUserByID(ctx, parsed.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.AuthResult{}, service.ErrInvalidToken
		}
		slog.Error("got error from repo.GetUserByID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthResult{}, err
	}

	user := dbConverter.ToUser(dbUser)

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.SignOut"

	slog.Debug("SignOut start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("SignOut finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	parsed, err := s.parseToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return service.ErrInvalidToken
	}

	err = s.session.DeleteRefreshToken(ctx, parsed.UserID)
	if err != nil {
		slog.Error("got error from session.DeleteRefreshToken", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// ValidateAccessToken is used by the auth middleware.
func (s *AuthService) ValidateAccessToken(tokenString string) (userID int64, err error) {
	parsed, err := s.parseToken(tokenString, s.cfg.JWT.AccessSecret)
	if err != nil {
		return 0, service.ErrInvalidToken
	}
	return parsed.UserID, nil
}
