package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	jwtpkg "github.com/pulsefeed-app/backend/internal/jwt"
	"github.com/pulsefeed-app/backend/internal/lib"
	"github.com/pulsefeed-app/backend/internal/orm"
	"github.com/pulsefeed-app/backend/internal/services"
)

type UserServiceImpl struct {
	db     *orm.DatabaseClient
	tokens *jwtpkg.JWT
	log    *zap.Logger
}

func NewUserService(db *orm.DatabaseClient, tokens *jwtpkg.JWT, log *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		db:     db,
		tokens: tokens,
		log:    log,
	}
}

var (
	_ services.UserService   = (*UserServiceImpl)(nil)
	_ services.UserDirectory = (*UserServiceImpl)(nil)
)

func (s *UserServiceImpl) Register(ctx context.Context, input services.RegisterInput) (*services.AuthenticatedUser, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", lib.ErrInvalidInput)
	}

	_, err := s.db.SelectUserByEmail(input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: email already registered", lib.ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("error checking email", zap.Error(err))
		return nil, lib.ErrStorage
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &orm.User{
		Name:     input.Name,
		Age:      input.Age,
		Email:    input.Email,
		Password: string(hash),
	}
	if err := s.db.InsertUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", lib.ErrConflict)
		}
		s.log.Error("error inserting user", zap.Error(err))
		return nil, lib.ErrStorage
	}

	return s.authenticate(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, email string, password string) (*services.AuthenticatedUser, error) {
	user, err := s.db.SelectUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lib.ErrUnauthorized
		}
		s.log.Error("error selecting user by email", zap.Error(err))
		return nil, lib.ErrStorage
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, lib.ErrUnauthorized
	}

	return s.authenticate(user)
}

func (s *UserServiceImpl) authenticate(user *orm.User) (*services.AuthenticatedUser, error) {
	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		s.log.Error("error issuing token", zap.Error(err))
		return nil, err
	}

	return &services.AuthenticatedUser{
		UserSummary: summarize(user),
		Token:       token,
	}, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*services.UserSummary, error) {
	return s.SummaryOf(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*services.UserSummary, error) {
	users, err := s.db.SelectUsers()
	if err != nil {
		s.log.Error("error listing users", zap.Error(err))
		return nil, lib.ErrStorage
	}

	summaries := make([]*services.UserSummary, 0, len(users))
	for _, user := range users {
		summary := summarize(user)
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, input services.UpdateUserInput) error {
	user, err := s.db.SelectUserByID(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", lib.ErrNotFound)
		}
		s.log.Error("error selecting user by id", zap.Error(err))
		return lib.ErrStorage
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
	}

	if err := s.db.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email already registered", lib.ErrConflict)
		}
		s.log.Error("error updating user", zap.Error(err))
		return lib.ErrStorage
	}
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.db.SelectUserByID(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", lib.ErrNotFound)
		}
		s.log.Error("error selecting user by id", zap.Error(err))
		return lib.ErrStorage
	}

	if err := s.db.DeleteUser(user); err != nil {
		s.log.Error("error deleting user", zap.Error(err))
		return lib.ErrStorage
	}
	return nil
}

func (s *UserServiceImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.db.SelectUserByID(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.log.Error("error selecting user by id", zap.Error(err))
		return false, lib.ErrStorage
	}
	return true, nil
}

func (s *UserServiceImpl) SummaryOf(ctx context.Context, id uuid.UUID) (*services.UserSummary, error) {
	user, err := s.db.SelectUserByID(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", lib.ErrNotFound)
		}
		s.log.Error("error selecting user by id", zap.Error(err))
		return nil, lib.ErrStorage
	}

	summary := summarize(user)
	return &summary, nil
}

func summarize(user *orm.User) services.UserSummary {
	return services.UserSummary{
		ID:     user.ID,
		Name:   user.Name,
		Age:    user.Age,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
}
