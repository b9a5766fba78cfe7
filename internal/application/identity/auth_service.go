package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/identity"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication for both identity spaces: staff
// accounts (admin, manager) and student accounts. The login type on each
// request picks the table; a username existing in one space says nothing
// about the other.
type AuthService struct {
	userRepo    identity.UserRepository
	studentRepo mess.StudentRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	studentRepo mess.StudentRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Login authenticates an account in the space selected by the login type
// and returns a token pair. Failures within a space are deliberately
// indistinguishable: unknown username and wrong password produce the same
// error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if !input.LoginType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOGIN_TYPE", "login_type must be admin_manager or student")
	}

	s.logger.Info("Login attempt",
		zap.String("login_type", string(input.LoginType)),
		zap.String("username", input.Username))

	switch input.LoginType {
	case LoginTypeStudent:
		return s.loginStudent(ctx, input)
	default:
		return s.loginStaff(ctx, input)
	}
}

func (s *AuthService) loginStaff(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalid := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid admin or manager credentials")

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Staff login for unknown username", zap.String("username", input.Username))
		return nil, invalid
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Staff login with wrong password", zap.String("username", input.Username))
		return nil, invalid
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best-effort
		s.logger.Error("Failed to record staff login", zap.Error(err))
	}

	s.logger.Info("Staff logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Principal: PrincipalInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.GetFullNameOrUsername(),
			Role:        string(user.Role),
		},
	}, nil
}

func (s *AuthService) loginStudent(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalid := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid student credentials")

	student, err := s.studentRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Student login for unknown username", zap.String("username", input.Username))
		return nil, invalid
	}

	if !student.CanLogin() || !student.VerifyPassword(input.Password) {
		s.logger.Warn("Student login with wrong password", zap.String("username", input.Username))
		return nil, invalid
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   student.ID,
		Username: student.Username,
		Role:     string(identity.RoleStudent),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Student logged in", zap.String("username", student.Username))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Principal: PrincipalInfo{
			ID:          student.ID,
			Username:    student.Username,
			DisplayName: student.Name,
			Role:        string(identity.RoleStudent),
		},
	}, nil
}

// RefreshToken rotates a token pair. The account behind the refresh token
// must still exist in its identity space; tokens for deleted accounts
// stop refreshing.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if blacklisted, berr := s.blacklist.IsBlacklisted(ctx, claims.ID); berr == nil && blacklisted {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid account ID in token")
	}

	username, err := s.resolveUsername(ctx, userID, claims.Role)
	if err != nil {
		s.logger.Warn("Token refresh for missing account",
			zap.String("user_id", userID.String()),
			zap.String("role", claims.Role))
		return nil, shared.ErrSessionInvalid
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, username)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented token by JTI until its natural expiry
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ttl := time.Until(input.ExpiresAt)
	if ttl <= 0 {
		// Already expired; nothing to revoke
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("Logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetCurrentUser returns the profile of the authenticated account,
// resolved in the identity space indicated by the token role
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	if input.Role == string(identity.RoleStudent) {
		student, err := s.studentRepo.FindByID(ctx, input.UserID)
		if err != nil {
			return nil, shared.ErrSessionInvalid
		}
		return &CurrentUserResult{
			Principal: PrincipalInfo{
				ID:          student.ID,
				Username:    student.Username,
				DisplayName: student.Name,
				Role:        string(identity.RoleStudent),
			},
			Room:        student.Room,
			Allergies:   student.Allergies,
			FoodType:    student.FoodType,
			DaysPresent: student.DaysPresent,
		}, nil
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.ErrSessionInvalid
	}
	return &CurrentUserResult{
		Principal: PrincipalInfo{
			ID:          user.ID,
			Username:    user.Username,
			DisplayName: user.GetFullNameOrUsername(),
			Role:        string(user.Role),
		},
	}, nil
}

// ChangePassword changes a staff account's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("Staff password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func (s *AuthService) resolveUsername(ctx context.Context, userID uuid.UUID, role string) (string, error) {
	if role == string(identity.RoleStudent) {
		student, err := s.studentRepo.FindByID(ctx, userID)
		if err != nil {
			return "", err
		}
		return student.Username, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
