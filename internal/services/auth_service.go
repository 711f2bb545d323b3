package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"momo-insights/pkg"
	"momo-insights/pkg/models"
	"momo-insights/pkg/repositories"
)

type AuthService interface {
	// Register creates a user with a bcrypt-hashed password. A taken
	// username surfaces as a validation error.
	Register(ctx context.Context, traceID, username, password string) error
	// Login verifies credentials and returns the user on success.
	Login(ctx context.Context, traceID, username, password string) (models.User, error)
}

type AuthServiceImpl struct {
	logger   *zap.Logger
	limiter  *pkg.LoginLimiter
	userRepo repositories.UserRepository
}

func NewAuthService(logger *zap.Logger, limiter *pkg.LoginLimiter, userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{
		logger:   logger,
		limiter:  limiter,
		userRepo: userRepo,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, traceID, username, password string) error {
	// Form binding validates the raw value; re-check after trimming so
	// whitespace padding cannot sneak a too-short name through.
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return pkg.NewAppError(pkg.ErrInvalidInputCode, "username must be at least 3 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkg.NewAppError(pkg.ErrServerCode, "could not hash password", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		appErr := pkg.HandleSQLError(traceID, s.logger, err)
		var ae pkg.AppError
		if errors.As(appErr, &ae) && ae.Code.Code == pkg.ErrSQLDuplicateCode.Code {
			return pkg.NewAppError(pkg.ErrInvalidInputCode, pkg.ErrUsernameTaken.Error(), pkg.ErrUsernameTaken)
		}
		return appErr
	}

	s.logger.Info("user registered",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.Username, username),
	)
	return nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, traceID, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)

	if s.limiter != nil && !s.limiter.Allow(ctx, username) {
		return models.User{}, pkg.NewAppError(pkg.ErrTooManyAttemptsCode, "too many login attempts, try again shortly", nil)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		appErr := pkg.HandleSQLError(traceID, s.logger, err)
		var ae pkg.AppError
		if errors.As(appErr, &ae) && ae.Code.Code == pkg.ErrRecordNotFoundCode.Code {
			// Unknown user and wrong password look the same to the caller.
			s.logger.Warn("login failed: unknown user",
				zap.String(pkg.TraceId, traceID),
				zap.String(pkg.Username, username),
			)
			return models.User{}, pkg.NewAppError(pkg.ErrAuthCode, pkg.ErrInvalidCredential.Error(), err)
		}
		return models.User{}, appErr
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed: password mismatch",
			zap.String(pkg.TraceId, traceID),
			zap.String(pkg.Username, username),
		)
		return models.User{}, pkg.NewAppError(pkg.ErrAuthCode, pkg.ErrInvalidCredential.Error(), pkg.ErrInvalidCredential)
	}

	s.logger.Info("user logged in",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.Username, username),
	)
	return user, nil
}
