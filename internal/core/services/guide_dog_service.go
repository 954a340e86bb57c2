package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/document"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Guide dog service errors
var (
	ErrDuplicateRegistration = fmt.Errorf("%w: registration number already in use", domain.ErrAlreadyExists)
)

// GuideDogService handles guide dog records.
// Ownership follows the caller's role: users own through id_usuario, institutions through id_instituicao.
type GuideDogService struct {
	dogRepo         repositories.GuideDogRepository
	institutionRepo repositories.InstitutionRepository
	log             *logrus.Logger
}

// NewGuideDogService creates a new guide dog service
func NewGuideDogService(
	dogRepo repositories.GuideDogRepository,
	institutionRepo repositories.InstitutionRepository,
	log *logrus.Logger,
) *GuideDogService {
	return &GuideDogService{
		dogRepo:         dogRepo,
		institutionRepo: institutionRepo,
		log:             log,
	}
}

// CreateGuideDogInput represents guide dog registration input
type CreateGuideDogInput struct {
	Nome            string `json:"nome" validate:"required,max=100"`
	Sexo            string `json:"sexo" validate:"required,oneof=macho femea"`
	Cor             string `json:"cor" validate:"required,max=50"`
	DataNascimento  string `json:"data_nascimento" validate:"required"`
	Raca            string `json:"raca" validate:"required,max=100"`
	NumeroRegistro  string `json:"numero_registro" validate:"required,max=50"`
	CNPJInstituicao string `json:"cnpj_instituicao"`
}

// UpdateGuideDogInput represents guide dog metadata changes.
// Ownership is never changed here.
type UpdateGuideDogInput struct {
	Nome           *string `json:"nome" validate:"omitempty,max=100"`
	Sexo           *string `json:"sexo" validate:"omitempty,oneof=macho femea"`
	Cor            *string `json:"cor" validate:"omitempty,max=50"`
	DataNascimento *string `json:"data_nascimento"`
	Raca           *string `json:"raca" validate:"omitempty,max=100"`
	NumeroRegistro *string `json:"numero_registro" validate:"omitempty,max=50"`
}

// Create registers a guide dog owned by the caller
func (s *GuideDogService) Create(ctx context.Context, identity *domain.Identity, input *CreateGuideDogInput) (*models.GuideDog, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	dog := &models.GuideDog{
		Nome:           strings.TrimSpace(input.Nome),
		Sexo:           input.Sexo,
		Cor:            input.Cor,
		DataNascimento: input.DataNascimento,
		Raca:           input.Raca,
		NumeroRegistro: strings.TrimSpace(input.NumeroRegistro),
		Ativo:          true,
	}

	switch identity.Role {
	case domain.RolePCD:
		ownerID := identity.ID
		dog.IDUsuario = &ownerID

		// The training institution is optional and linked by CNPJ when known
		if cnpj := document.Digits(input.CNPJInstituicao); cnpj != "" {
			institution, err := s.institutionRepo.FindByCNPJ(ctx, cnpj)
			switch {
			case err == nil:
				dog.IDInstituicao = &institution.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.log.WithField("cnpj", cnpj).Warn("Institution not found for guide dog, leaving unlinked")
			default:
				return nil, err
			}
		}
	case domain.RoleInstitution:
		ownerID := identity.ID
		dog.IDInstituicao = &ownerID
	default:
		return nil, domain.ErrForbidden
	}

	exists, err := s.dogRepo.ExistsByRegistration(ctx, dog.NumeroRegistro)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	if err := s.dogRepo.Create(ctx, dog); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, err
	}
	return dog, nil
}

// ListMine lists the active dogs owned by the caller
func (s *GuideDogService) ListMine(ctx context.Context, identity *domain.Identity) ([]*models.GuideDog, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role == domain.RoleInstitution {
		return s.dogRepo.ListActiveByInstitution(ctx, identity.ID)
	}
	return s.dogRepo.ListActiveByUser(ctx, identity.ID)
}

// GetMine gets one active dog owned by the caller.
// A dog owned by someone else is reported as not found.
func (s *GuideDogService) GetMine(ctx context.Context, identity *domain.Identity, id uint) (*models.GuideDog, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	dog, err := s.dogRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !ownsDog(identity, dog) {
		return nil, domain.ErrNotFound
	}
	return dog, nil
}

// UpdateMine updates the metadata of a dog owned by the caller
func (s *GuideDogService) UpdateMine(ctx context.Context, identity *domain.Identity, id uint, input *UpdateGuideDogInput) (*models.GuideDog, error) {
	dog, err := s.GetMine(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if input.Nome != nil {
		nome := strings.TrimSpace(*input.Nome)
		if nome == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		dog.Nome = nome
	}
	if input.NumeroRegistro != nil {
		number := strings.TrimSpace(*input.NumeroRegistro)
		if number == "" {
			return nil, fmt.Errorf("%w: registration number cannot be empty", domain.ErrInvalidInput)
		}
		if number != dog.NumeroRegistro {
			taken, err := s.dogRepo.RegistrationTakenByOther(ctx, number, dog.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrDuplicateRegistration
			}
		}
		dog.NumeroRegistro = number
	}
	if input.Sexo != nil {
		dog.Sexo = *input.Sexo
	}
	if input.Cor != nil {
		dog.Cor = *input.Cor
	}
	if input.DataNascimento != nil {
		dog.DataNascimento = *input.DataNascimento
	}
	if input.Raca != nil {
		dog.Raca = *input.Raca
	}

	column, ownerID := dogOwner(identity)
	ok, err := s.dogRepo.UpdateForOwner(ctx, dog, column, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return dog, nil
}

// DeactivateMine soft-deletes a dog owned by the caller
func (s *GuideDogService) DeactivateMine(ctx context.Context, identity *domain.Identity, id uint) error {
	if _, err := s.GetMine(ctx, identity, id); err != nil {
		return err
	}

	ok, err := s.dogRepo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// dogOwner picks the owner column by role, never by id equality across tables
func dogOwner(identity *domain.Identity) (string, uint) {
	if identity.Role == domain.RoleInstitution {
		return repositories.DogOwnerInstitution, identity.ID
	}
	return repositories.DogOwnerUser, identity.ID
}

func ownsDog(identity *domain.Identity, dog *models.GuideDog) bool {
	if identity.Role == domain.RoleInstitution {
		return dog.IDInstituicao != nil && *dog.IDInstituicao == identity.ID
	}
	return dog.IDUsuario != nil && *dog.IDUsuario == identity.ID
}
