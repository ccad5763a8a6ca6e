package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/PhotoShare/internal/core/ports"
	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users     ports.UserStorage
	validate  *validator.Validate
	cost      int
	dummyHash []byte
	logger    *slog.Logger
}

// NewAuthUseCase создает сценарии регистрации и входа
func NewAuthUseCase(users ports.UserStorage, logger *slog.Logger) AuthUseCase {
	return newAuthUseCase(users, bcrypt.DefaultCost, logger)
}

func newAuthUseCase(users ports.UserStorage, cost int, logger *slog.Logger) *authUseCase {
	// хэш для сравнения при неизвестном имени, чтобы время ответа не выдавало существование пользователя
	dummy, _ := bcrypt.GenerateFromPassword([]byte("photoshare-dummy-password"), cost)
	return &authUseCase{
		users:     users,
		validate:  validator.New(),
		cost:      cost,
		dummyHash: dummy,
		logger:    logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validate(uc.validate, in); err != nil {
		return nil, err
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	_, err := uc.users.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("usecase: username %q: %w", in.Username, domain.ErrConstraintViolation)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("usecase: lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user := &domain.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: register: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.UserID, "username", user.Username)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(password))
		uc.logger.Info("login failed", "reason", "unknown user")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.logger.Info("login failed", "reason", "password mismatch", "user_id", user.UserID)
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("user logged in", "user_id", user.UserID)
	return user, nil
}
