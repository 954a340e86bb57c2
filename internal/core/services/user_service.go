package services

import (
	"context"
	"errors"
	"fmt"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/document"
	"caoguia-api/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// User service errors
var (
	ErrEmailAlreadyExists  = fmt.Errorf("%w: email already in use", domain.ErrAlreadyExists)
	ErrCannotChangeOwnRole = fmt.Errorf("%w: cannot change your own admin flag", domain.ErrForbidden)
)

// UserService handles user account business logic
type UserService struct {
	userRepo repositories.UserRepository
	log      *logrus.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, log *logrus.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// UpdateUserInput represents update user input.
// Administrador is honored only when the caller is an admin.
type UpdateUserInput struct {
	Nome                *string `json:"nome"`
	Email               *string `json:"email" validate:"omitempty,email"`
	Telefone            *string `json:"telefone"`
	EnderecoLogradouro  *string `json:"endereco_logradouro"`
	EnderecoNumero      *string `json:"endereco_numero" validate:"omitempty,max=10"`
	EnderecoComplemento *string `json:"endereco_complemento"`
	EnderecoCEP         *string `json:"endereco_cep"`
	EnderecoCidade      *string `json:"endereco_cidade"`
	EnderecoEstado      *string `json:"endereco_estado" validate:"omitempty,len=2"`
	EnderecoBairro      *string `json:"endereco_bairro"`
	Administrador       *bool   `json:"administrador"`
}

// GetMe returns the account of the calling user
func (s *UserService) GetMe(ctx context.Context, identity *domain.Identity) (*models.UserResponse, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role == domain.RoleInstitution {
		return nil, domain.ErrForbidden
	}
	return s.GetByID(ctx, identity.ID)
}

// GetByID gets an active user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// Update updates a user account on behalf of actor
func (s *UserService) Update(ctx context.Context, actor *domain.Identity, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	changeAdmin := input.Administrador != nil && *input.Administrador != user.Administrador
	if changeAdmin {
		if !actor.IsAdmin {
			return nil, domain.ErrForbidden
		}
		if actor.ID == id {
			return nil, ErrCannotChangeOwnRole
		}
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.userRepo.EmailTakenByOther(ctx, *input.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}

	if input.EnderecoCEP != nil {
		cep := document.Digits(*input.EnderecoCEP)
		if cep != "" && len(cep) != 8 {
			return nil, fmt.Errorf("%w: CEP must contain exactly 8 digits", domain.ErrInvalidInput)
		}
		user.EnderecoCEP = cep
	}

	if input.Nome != nil {
		user.Nome = *input.Nome
	}
	if input.Telefone != nil {
		user.Telefone = document.Digits(*input.Telefone)
	}
	if input.EnderecoLogradouro != nil {
		user.EnderecoLogradouro = *input.EnderecoLogradouro
	}
	if input.EnderecoNumero != nil {
		user.EnderecoNumero = *input.EnderecoNumero
	}
	if input.EnderecoComplemento != nil {
		user.EnderecoComplemento = input.EnderecoComplemento
	}
	if input.EnderecoCidade != nil {
		user.EnderecoCidade = *input.EnderecoCidade
	}
	if input.EnderecoEstado != nil {
		user.EnderecoEstado = *input.EnderecoEstado
	}
	if input.EnderecoBairro != nil {
		user.EnderecoBairro = *input.EnderecoBairro
	}

	ok, err := s.userRepo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	if changeAdmin {
		ok, err := s.userRepo.SetAdmin(ctx, id, *input.Administrador)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
		user.Administrador = *input.Administrador

		logger.Audit(ctx, s.log, "account.user.admin_changed").WithFields(logrus.Fields{
			"user_id":  id,
			"actor_id": actor.ID,
			"admin":    user.Administrador,
		}).Info("Admin flag changed")
	}

	return user.ToResponse(), nil
}

// Deactivate soft-deletes a user by clearing ativo.
// Tokens already issued to the user stop resolving on their next request.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.Identity, id uint) error {
	ok, err := s.userRepo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	entry := logger.Audit(ctx, s.log, "account.user.deactivated").WithField("user_id", id)
	if actor != nil {
		entry = entry.WithField("actor_id", actor.ID)
	}
	entry.Info("User deactivated")
	return nil
}
