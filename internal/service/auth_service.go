package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vetcita/internal/domain"
	"vetcita/internal/session"
	"vetcita/pkg/auth"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	minPasswordLen  = 8
)

type AuthService struct {
	users    domain.UserRepository
	tokens   *auth.TokenManager
	sessions *session.Store
	auditSvc *AuditService
	log      *zap.Logger
}

func NewAuthService(
	users domain.UserRepository,
	tokens *auth.TokenManager,
	sessions *session.Store,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{users: users, tokens: tokens, sessions: sessions, auditSvc: auditSvc, log: log}
}

type RegisterCommand struct {
	Email    string
	Password string
	Nombre   string
	Role     domain.Role
}

// Register creates an account. Self-service registration only creates client
// accounts; veterinarian accounts are provisioned by the clinic.
func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand, ip string) (*domain.User, *domain.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, &ValidationError{Field: "email", Message: "valid email is required"}
	}
	if strings.TrimSpace(cmd.Nombre) == "" {
		return nil, nil, &ValidationError{Field: "nombre", Message: "name is required"}
	}
	if len(cmd.Password) < minPasswordLen {
		return nil, nil, &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen)}
	}
	if cmd.Role != domain.RoleClient && cmd.Role != domain.RoleVeterinarian {
		return nil, nil, domain.ErrInvalidRole
	}
	if cmd.Role != domain.RoleClient {
		return nil, nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:             email,
		PasswordHash:      string(hash),
		Nombre:            strings.TrimSpace(cmd.Nombre),
		Role:              cmd.Role,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	pair, err := s.startSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: u.ID, UserRole: u.Role,
		Action: domain.ActionCreate, ResourceType: "user", ResourceID: fmt.Sprint(u.ID), IPAddress: ip,
	})
	return u, pair, nil
}

// Login verifies credentials and opens a session. Repeated failures lock the
// account for a cooldown period; lockout state is only reported after the
// credentials check so the error never leaks which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.User, *domain.TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}
	if !u.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.recordFailedLogin(ctx, u)
		return nil, nil, ErrInvalidCredentials
	}
	if u.IsLocked() {
		return nil, nil, ErrAccountLocked
	}

	now := time.Now()
	u.FailedLoginCount = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Warn("failed to record login time", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	pair, err := s.startSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: u.ID, UserRole: u.Role,
		Action: domain.ActionLogin, ResourceType: "session", ResourceID: fmt.Sprint(u.ID), IPAddress: ip,
	})
	return u, pair, nil
}

func (s *AuthService) startSession(ctx context.Context, u *domain.User) (*domain.TokenPair, error) {
	pair, err := s.tokens.IssuePair(u)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	err = s.sessions.Set(ctx, session.Session{
		UserID:   u.ID,
		Email:    u.Email,
		Nombre:   u.Nombre,
		Role:     u.Role,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return pair, nil
}

func (s *AuthService) recordFailedLogin(ctx context.Context, u *domain.User) {
	u.FailedLoginCount++
	if u.FailedLoginCount >= maxFailedLogins {
		until := time.Now().Add(lockoutDuration)
		u.LockedUntil = &until
		u.FailedLoginCount = 0
		s.log.Warn("account locked after repeated failed logins", zap.Uint("user_id", u.ID))
	}
	if err := s.users.Update(ctx, u); err != nil {
		s.log.Error("failed to record failed login", zap.Uint("user_id", u.ID), zap.Error(err))
	}
}

// Logout closes the user's session. Session observers (the booking service
// among them) react to the logout event.
func (s *AuthService) Logout(ctx context.Context, userID uint, role domain.Role, ip string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: userID, UserRole: role,
		Action: domain.ActionLogout, ResourceType: "session", ResourceID: fmt.Sprint(userID), IPAddress: ip,
	})
	return nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || !u.IsActive {
		return nil, ErrUnauthenticated
	}
	return s.startSession(ctx, u)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < minPasswordLen {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen)}
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.PasswordChangedAt = time.Now()
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
