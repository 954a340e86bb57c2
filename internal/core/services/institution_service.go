package services

import (
	"context"
	"errors"
	"fmt"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/document"

	"gorm.io/gorm"
)

// InstitutionService handles institution account business logic
type InstitutionService struct {
	institutionRepo repositories.InstitutionRepository
}

// NewInstitutionService creates a new institution service
func NewInstitutionService(institutionRepo repositories.InstitutionRepository) *InstitutionService {
	return &InstitutionService{institutionRepo: institutionRepo}
}

// UpdateInstitutionInput represents update institution input
type UpdateInstitutionInput struct {
	RazaoSocial         *string `json:"razao_social"`
	Email               *string `json:"email" validate:"omitempty,email"`
	EnderecoLogradouro  *string `json:"endereco_logradouro"`
	EnderecoNumero      *string `json:"endereco_numero" validate:"omitempty,max=10"`
	EnderecoComplemento *string `json:"endereco_complemento"`
	EnderecoCEP         *string `json:"endereco_cep"`
	EnderecoCidade      *string `json:"endereco_cidade"`
	EnderecoEstado      *string `json:"endereco_estado" validate:"omitempty,len=2"`
	EnderecoBairro      *string `json:"endereco_bairro"`
}

// GetMe returns the record of the calling institution
func (s *InstitutionService) GetMe(ctx context.Context, identity *domain.Identity) (*models.InstitutionResponse, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role != domain.RoleInstitution {
		return nil, domain.ErrForbidden
	}

	institution, err := s.institutionRepo.FindActiveByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return institution.ToResponse(), nil
}

// UpdateMe updates the record of the calling institution.
// CNPJ and approval status are not editable here.
func (s *InstitutionService) UpdateMe(ctx context.Context, identity *domain.Identity, input *UpdateInstitutionInput) (*models.InstitutionResponse, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role != domain.RoleInstitution {
		return nil, domain.ErrForbidden
	}

	institution, err := s.institutionRepo.FindActiveByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != institution.Email {
		taken, err := s.institutionRepo.EmailTakenByOther(ctx, *input.Email, institution.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		institution.Email = *input.Email
	}

	if input.EnderecoCEP != nil {
		cep := document.Digits(*input.EnderecoCEP)
		if cep != "" && len(cep) != 8 {
			return nil, fmt.Errorf("%w: CEP must contain exactly 8 digits", domain.ErrInvalidInput)
		}
		institution.EnderecoCEP = cep
	}

	if input.RazaoSocial != nil {
		institution.RazaoSocial = *input.RazaoSocial
	}
	if input.EnderecoLogradouro != nil {
		institution.EnderecoLogradouro = *input.EnderecoLogradouro
	}
	if input.EnderecoNumero != nil {
		institution.EnderecoNumero = *input.EnderecoNumero
	}
	if input.EnderecoComplemento != nil {
		institution.EnderecoComplemento = input.EnderecoComplemento
	}
	if input.EnderecoCidade != nil {
		institution.EnderecoCidade = *input.EnderecoCidade
	}
	if input.EnderecoEstado != nil {
		institution.EnderecoEstado = *input.EnderecoEstado
	}
	if input.EnderecoBairro != nil {
		institution.EnderecoBairro = *input.EnderecoBairro
	}

	ok, err := s.institutionRepo.Update(ctx, institution)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	return institution.ToResponse(), nil
}

// SearchByCNPJ finds an approved, active institution by CNPJ.
// Used by PCD users to link a guide dog to its training institution.
func (s *InstitutionService) SearchByCNPJ(ctx context.Context, cnpj string) (*models.InstitutionResponse, error) {
	cnpj = document.Digits(cnpj)
	if len(cnpj) != 14 {
		return nil, fmt.Errorf("%w: CNPJ must contain exactly 14 digits", domain.ErrInvalidInput)
	}

	institution, err := s.institutionRepo.FindByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !institution.Ativo || domain.ApprovalStatus(institution.StatusValidacao) != domain.StatusApproved {
		return nil, domain.ErrNotFound
	}
	return institution.ToResponse(), nil
}
