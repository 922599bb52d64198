package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mail"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UserUpdate carries the fields a user may change about themselves.
// Nil pointers mean "leave unchanged". Allow-list enforcement against
// the raw request body happens at the API layer; this type can only
// represent permitted fields.
type UserUpdate struct {
	Name     *string
	Email    *string
	Age      *int
	Password *string
}

// UserService implements account lifecycle operations: registration,
// login/logout, profile updates, avatar management and deletion with
// task cascade.
type UserService struct {
	db           *sql.DB
	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore
	jwtService   auth.JWTService
	hasher       auth.PasswordHasher
	verifier     auth.PasswordVerifier
	notifier     mail.Notifier
	logger       *slog.Logger

	// runTx executes a function inside a database transaction. Tests
	// substitute a runner that skips the live database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewUserService creates a UserService with the given dependencies.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	sessionStore store.SessionStore,
	taskStore store.TaskStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	notifier mail.Notifier,
	log *slog.Logger,
) (*UserService, error) {
	if db == nil || userStore == nil || sessionStore == nil || taskStore == nil {
		return nil, fmt.Errorf("user service requires db and stores")
	}
	if jwtService == nil || hasher == nil || verifier == nil || notifier == nil {
		return nil, fmt.Errorf("user service requires auth services and notifier")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		db:           db,
		userStore:    userStore,
		sessionStore: sessionStore,
		taskStore:    taskStore,
		jwtService:   jwtService,
		hasher:       hasher,
		verifier:     verifier,
		notifier:     notifier,
		logger:       log.With(slog.String("component", "user_service")),
		runTx:        store.RunInTransaction,
	}, nil
}

// Register creates an account, issues a session token and queues the
// welcome email. Returns the user and the signed token.
func (s *UserService) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	// Best effort; outcome is invisible to the caller.
	s.notifier.NotifyWelcome(user.Name, user.Email)

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// Login authenticates by email and password and issues a session token.
// Every failure mode maps to ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// issueSession signs a token and records it so it can later be revoked.
func (s *UserService) issueSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.sessionStore.Add(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	return token, nil
}

// Logout revokes exactly the presented token, leaving the user's other
// sessions valid.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	err := s.sessionStore.Delete(ctx, userID, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		// Already revoked; logout is idempotent.
		return nil
	}
	return err
}

// LogoutAll revokes every session the user has.
func (s *UserService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionStore.DeleteAll(ctx, userID)
}

// Get returns the user's profile.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, userID)
}

// Update applies the permitted profile changes. A password change is
// validated against the password policy and rehashes.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, update UserUpdate) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Password != nil {
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*update.Password)
		if err != nil {
			log.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Debug("user updated", slog.String("user_id", userID.String()))
	return user, nil
}

// Delete removes the account. Owned tasks and sessions go in the same
// transaction as the user row, then the cancellation email is queued.
// Returns the removed user's profile.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).DeleteAllForOwner(ctx, userID); err != nil {
			return err
		}
		if err := s.sessionStore.WithTx(tx).DeleteAll(ctx, userID); err != nil {
			return err
		}
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCancellation(user.Name, user.Email)

	log.Info("user account deleted", slog.String("user_id", userID.String()))
	return user, nil
}

// SetAvatar validates and normalizes the upload (250x250 PNG) and
// stores it. The original upload must be at most 1MB with a png, jpg or
// jpeg extension; nothing is mutated on rejection.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error {
	processed, err := processAvatar(filename, data)
	if err != nil {
		return err
	}

	return s.userStore.UpdateAvatar(ctx, userID, processed)
}

// ClearAvatar removes the stored avatar.
func (s *UserService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.userStore.UpdateAvatar(ctx, userID, nil)
}

// GetAvatar returns the stored avatar bytes, always PNG-encoded.
func (s *UserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.userStore.GetAvatar(ctx, userID)
}
