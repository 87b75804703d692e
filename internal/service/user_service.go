package service

import (
	"context"
	"errors"
	"strings"

	"nightlife/internal/models"
	"nightlife/internal/repository"
	"nightlife/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is the signup body.
type RegisterInput struct {
	Pseudonym   string             `json:"pseudonym" validate:"required,pseudonym"`
	Email       string             `json:"email" validate:"required,email,max=255"`
	Password    string             `json:"password" validate:"required"`
	AccountType models.AccountType `json:"account_type" validate:"omitempty,oneof=regular establishment_owner employee"`
}

type UserService struct {
	repo repository.UserRepository
	cost int
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Pseudonym = strings.TrimSpace(in.Pseudonym)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.AccountType == "" {
		in.AccountType = models.AccountRegular
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.NewConflictError("An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Pseudonym:   in.Pseudonym,
		Email:       in.Email,
		Password:    string(hashed),
		Role:        models.RoleUser,
		AccountType: in.AccountType,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translate(err, "user", in.Email)
	}
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, models.NewForbiddenError("Account is disabled")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user", id)
	}
	return user, nil
}
