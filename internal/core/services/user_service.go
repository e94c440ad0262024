package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils"
	"github.com/samber/lo"
)

type userService struct {
	userRepo     portsrepo.UserRepositoryFacade
	currencySvc  portssvc.CurrencyReaderSvc
	baseCurrency string
	kycReviewers []string
}

// NewUserService creates the user service. kycReviewers lists the user IDs
// allowed to approve or reject KYC submissions.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc, baseCurrency string, kycReviewers []string) portssvc.UserSvcFacade {
	return &userService{
		userRepo:     userRepo,
		currencySvc:  currencySvc,
		baseCurrency: baseCurrency,
		kycReviewers: kycReviewers,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new account. New users start with a pending KYC
// status and the base currency as their preference unless they chose one.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	preferred := req.PreferredCurrency
	if preferred == "" {
		preferred = s.baseCurrency
	}
	if !s.currencySvc.IsSupported(preferred) {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, preferred)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:            newUserID,
		Username:          req.Username,
		Name:              req.Name,
		PreferredCurrency: preferred,
		KYCStatus:         domain.KYCPending,
		PasswordHash:      passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateUser applies profile edits. Users may only update themselves. The
// preferred currency must remain inside the supported set.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s for update: %w", userID, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PreferredCurrency != nil {
		if !s.currencySvc.IsSupported(*req.PreferredCurrency) {
			return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, *req.PreferredCurrency)
		}
		user.PreferredCurrency = *req.PreferredCurrency
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// SetKYCStatus transitions a user's verification state. Users may only submit
// their own pending KYC for review; APPROVED and REJECTED are reserved for the
// configured reviewers, so an account can never approve itself.
func (s *userService) SetKYCStatus(ctx context.Context, userID string, status domain.KYCStatus, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	isReviewer := lo.Contains(s.kycReviewers, requestingUserID)
	if !isReviewer && (userID != requestingUserID || status != domain.KYCSubmitted) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s for KYC update: %w", userID, err)
	}

	if !isReviewer && user.KYCStatus != domain.KYCPending {
		return nil, fmt.Errorf("%w: KYC is already %s", apperrors.ErrValidation, user.KYCStatus)
	}

	user.KYCStatus = status
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to set KYC status for user %s: %w", userID, err)
	}

	logger.Info("KYC status updated",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
	)
	return user, nil
}

// SetDetectedCurrency records the geo-IP detection result on a user's profile.
// The detected currency informs UI defaults only; it never overrides the
// user's preferred currency.
func (s *userService) SetDetectedCurrency(ctx context.Context, userID, currencyCode, country string) error {
	if !s.currencySvc.IsSupported(currencyCode) {
		return fmt.Errorf("%w: unsupported currency %s", apperrors.ErrValidation, currencyCode)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user %s for detected currency update: %w", userID, err)
	}

	user.DetectedCurrency = currencyCode
	user.Country = country
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to store detected currency for user %s: %w", userID, err)
	}
	return nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken removes a user's stored refresh token (logout).
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// DeleteUser soft deletes a user. Users may only delete themselves.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return apperrors.ErrForbidden
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

// AuthenticateUser verifies a username/password pair. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
