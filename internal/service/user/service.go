package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodorder/internal/authz"
	"foodorder/internal/domain"
	tokenrepo "foodorder/internal/repository/token"
	userrepo "foodorder/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup/login flows, token-based identity resolution and
// account management.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	guard       *authz.Guard
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, guard *authz.Guard) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		guard:       guard,
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
}

// Signup registers a new member account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("%w: location required", domain.ErrValidation)
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleMember,
		Location:     strings.TrimSpace(in.Location),
	})
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh rotates a refresh token: the presented token is discarded and a
// fresh access/refresh pair is issued, so each refresh token redeems once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, string, string, error) {
	meta, ok := s.tokens.Validate(ctx, refreshToken)
	if !ok || meta.Kind != "refresh" {
		return nil, "", "", ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidToken
		}
		return nil, "", "", err
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, "", "", err
	}

	access, err := s.tokens.Issue(ctx, u.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Logout revokes every token issued to the user, access and refresh alike.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeAll(ctx, userID)
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok || meta.Kind != "access" {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// UpdateInput carries optional account changes from the update endpoint.
type UpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Location *string `json:"location"`
}

// Get returns an account. Owner or admin only.
func (s *Service) Get(ctx context.Context, id domain.Identity, userID string) (*domain.User, error) {
	if err := s.guard.CanManageUser(id, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// Update changes account fields. Owner or admin only; a new password goes
// through the same policy and hashing as signup.
func (s *Service) Update(ctx context.Context, id domain.Identity, userID string, in UpdateInput) (*domain.User, error) {
	if err := s.guard.CanManageUser(id, userID); err != nil {
		return nil, err
	}

	repoIn := userrepo.UpdateInput{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
		}
		repoIn.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email required", domain.ErrValidation)
		}
		repoIn.Email = &email
	}
	if in.Location != nil {
		location := strings.TrimSpace(*in.Location)
		if location == "" {
			return nil, fmt.Errorf("%w: location required", domain.ErrValidation)
		}
		repoIn.Location = &location
	}
	if in.Password != nil {
		password := strings.TrimSpace(*in.Password)
		if err := validatePassword(password, s.passwordMin); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash := string(hashed)
		repoIn.PasswordHash = &hash
	}

	return s.repo.Update(ctx, userID, repoIn)
}

// Delete removes an account together with its tokens. Owner or admin only.
func (s *Service) Delete(ctx context.Context, id domain.Identity, userID string) error {
	if err := s.guard.CanManageUser(id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, userID)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number", domain.ErrValidation)
	}
	return nil
}
