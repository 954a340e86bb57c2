package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/document"
	"caoguia-api/internal/pkg/jwt"
	"caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/metrics"
	"caoguia-api/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService handles login and registration for every principal kind
type AuthService struct {
	userRepo        repositories.UserRepository
	institutionRepo repositories.InstitutionRepository
	codec           *jwt.Codec
	log             *logrus.Logger
	metrics         *metrics.Auth
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	institutionRepo repositories.InstitutionRepository,
	codec *jwt.Codec,
	log *logrus.Logger,
	m *metrics.Auth,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		institutionRepo: institutionRepo,
		codec:           codec,
		log:             log,
		metrics:         m,
	}
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  *domain.Identity `json:"identity"`
}

// Login authenticates a principal of the given kind
func (s *AuthService) Login(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*LoginResult, error) {
	switch kind {
	case domain.KindUser:
		return s.LoginUser(ctx, email, secret)
	case domain.KindInstitution:
		return s.LoginInstitution(ctx, email, secret)
	}
	return nil, domain.ErrInvalidInput
}

// LoginUser authenticates a PCD user or an administrator.
// Unknown email and wrong password fail identically.
func (s *AuthService) LoginUser(ctx context.Context, email, secret string) (*LoginResult, error) {
	kind := string(domain.KindUser)

	// 1. Find active user by email
	row, err := s.userRepo.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.CompareDummy(secret)
			return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeInvalidCredentials, domain.ErrInvalidCredentials)
		}
		s.metrics.Login(kind, metrics.OutcomeError)
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	// 2. Verify password
	if !password.Verify(secret, row.Senha) {
		return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeInvalidCredentials, domain.ErrInvalidCredentials)
	}

	// 3. Mint token
	principal := domain.Principal{User: row.ToDomain()}
	return s.issue(ctx, kind, principal)
}

// LoginInstitution authenticates a partner institution.
// Approval status is checked before the password and reported explicitly.
func (s *AuthService) LoginInstitution(ctx context.Context, email, secret string) (*LoginResult, error) {
	kind := string(domain.KindInstitution)

	// 1. Find institution by email, active or not
	row, err := s.institutionRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.CompareDummy(secret)
			return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeInvalidCredentials, domain.ErrInvalidCredentials)
		}
		s.metrics.Login(kind, metrics.OutcomeError)
		return nil, fmt.Errorf("find institution by email: %w", err)
	}

	// 2. Approval gate
	switch domain.ApprovalStatus(row.StatusValidacao) {
	case domain.StatusApproved:
	case domain.StatusRejected:
		return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeRejected, domain.ErrRegistrationRejected)
	default:
		return nil, s.loginFailed(ctx, kind, email, metrics.OutcomePending, domain.ErrRegistrationPending)
	}

	// 3. Verify password
	if !password.Verify(secret, row.Senha) {
		return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeInvalidCredentials, domain.ErrInvalidCredentials)
	}

	// 4. A deactivated institution would be refused on its first request
	if !row.Ativo {
		return nil, s.loginFailed(ctx, kind, email, metrics.OutcomeInvalidCredentials, domain.ErrInvalidCredentials)
	}

	principal := domain.Principal{Institution: row.ToDomain()}
	return s.issue(ctx, kind, principal)
}

func (s *AuthService) issue(ctx context.Context, kind string, principal domain.Principal) (*LoginResult, error) {
	identity := domain.IdentityFromPrincipal(principal, principal.Role())

	token, expiresAt, err := s.codec.Encode(jwt.Claims{
		ID:      identity.ID,
		Name:    identity.Name,
		IsAdmin: identity.IsAdmin,
		Role:    string(identity.Role),
	})
	if err != nil {
		s.metrics.Login(kind, metrics.OutcomeError)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.metrics.Login(kind, metrics.OutcomeSuccess)
	logger.Audit(ctx, s.log, "auth.login.success").WithFields(logrus.Fields{
		"kind":         kind,
		"principal_id": identity.ID,
		"role":         identity.Role,
	}).Info("✅ Login successful")

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, kind, email, outcome string, err error) error {
	s.metrics.Login(kind, outcome)
	logger.Audit(ctx, s.log, "auth.login.failure").WithFields(logrus.Fields{
		"kind":   kind,
		"email":  email,
		"reason": outcome,
	}).Warn("Login rejected")
	return err
}

// ============================================================
// Registration
// ============================================================

// RegisterUserInput represents PCD user registration input
type RegisterUserInput struct {
	Nome                string  `json:"nome" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	Senha               string  `json:"senha" validate:"required,min=6,max=50"`
	CPF                 string  `json:"cpf" validate:"required"`
	RG                  string  `json:"rg"`
	Sexo                string  `json:"sexo" validate:"required,oneof=masc fem nao-bin"`
	DataNascimento      string  `json:"data_nascimento" validate:"required"`
	Telefone            string  `json:"telefone"`
	EnderecoLogradouro  string  `json:"endereco_logradouro"`
	EnderecoNumero      string  `json:"endereco_numero" validate:"max=10"`
	EnderecoComplemento *string `json:"endereco_complemento"`
	EnderecoCEP         string  `json:"endereco_cep"`
	EnderecoCidade      string  `json:"endereco_cidade"`
	EnderecoEstado      string  `json:"endereco_estado" validate:"omitempty,len=2"`
	EnderecoBairro      string  `json:"endereco_bairro"`
	IDInstituicao       *uint   `json:"id_instituicao"`
}

// RegisterUser registers a new PCD user.
// Users are usable immediately; status_validacao starts as pending but does not gate login.
func (s *AuthService) RegisterUser(ctx context.Context, input *RegisterUserInput) (*models.UserResponse, error) {
	cpf := document.Digits(input.CPF)
	if len(cpf) != 11 {
		return nil, fmt.Errorf("%w: CPF must contain exactly 11 digits", domain.ErrInvalidInput)
	}
	cep := document.Digits(input.EnderecoCEP)
	if cep != "" && len(cep) != 8 {
		return nil, fmt.Errorf("%w: CEP must contain exactly 8 digits", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(input.Senha) {
		return nil, fmt.Errorf("%w: password must have 6 to 50 characters", domain.ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByEmailOrCPF(ctx, input.Email, cpf)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Senha)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Nome:                input.Nome,
		Email:               input.Email,
		Senha:               hashedPassword,
		CPF:                 cpf,
		RG:                  document.Digits(input.RG),
		Sexo:                input.Sexo,
		DataNascimento:      input.DataNascimento,
		Telefone:            document.Digits(input.Telefone),
		EnderecoLogradouro:  input.EnderecoLogradouro,
		EnderecoNumero:      input.EnderecoNumero,
		EnderecoComplemento: input.EnderecoComplemento,
		EnderecoCEP:         cep,
		EnderecoCidade:      input.EnderecoCidade,
		EnderecoEstado:      input.EnderecoEstado,
		EnderecoBairro:      input.EnderecoBairro,
		IDInstituicao:       input.IDInstituicao,
		Administrador:       false,
		Ativo:               true,
		StatusValidacao:     string(domain.StatusPending),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	logger.Audit(ctx, s.log, "auth.register.user").WithField("user_id", user.ID).Info("✅ User registered")
	return user.ToResponse(), nil
}

// RegisterInstitutionInput represents institution registration input
type RegisterInstitutionInput struct {
	RazaoSocial         string  `json:"razao_social" validate:"required"`
	CNPJ                string  `json:"cnpj" validate:"required"`
	Email               string  `json:"email" validate:"required,email"`
	Senha               string  `json:"senha" validate:"required,min=6,max=50"`
	EnderecoLogradouro  string  `json:"endereco_logradouro"`
	EnderecoNumero      string  `json:"endereco_numero" validate:"max=10"`
	EnderecoComplemento *string `json:"endereco_complemento"`
	EnderecoCEP         string  `json:"endereco_cep"`
	EnderecoCidade      string  `json:"endereco_cidade"`
	EnderecoEstado      string  `json:"endereco_estado" validate:"omitempty,len=2"`
	EnderecoBairro      string  `json:"endereco_bairro"`
}

// RegisterInstitution registers a new institution in pending approval status
func (s *AuthService) RegisterInstitution(ctx context.Context, input *RegisterInstitutionInput) (*models.InstitutionResponse, error) {
	cnpj := document.Digits(input.CNPJ)
	if !document.ValidCNPJ(cnpj) {
		return nil, fmt.Errorf("%w: invalid CNPJ", domain.ErrInvalidInput)
	}
	cep := document.Digits(input.EnderecoCEP)
	if cep != "" && len(cep) != 8 {
		return nil, fmt.Errorf("%w: CEP must contain exactly 8 digits", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(input.Senha) {
		return nil, fmt.Errorf("%w: password must have 6 to 50 characters", domain.ErrInvalidInput)
	}

	exists, err := s.institutionRepo.ExistsByEmailOrCNPJ(ctx, input.Email, cnpj)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Senha)
	if err != nil {
		return nil, err
	}

	institution := &models.Institution{
		RazaoSocial:         input.RazaoSocial,
		CNPJ:                cnpj,
		Email:               input.Email,
		Senha:               hashedPassword,
		EnderecoLogradouro:  input.EnderecoLogradouro,
		EnderecoNumero:      input.EnderecoNumero,
		EnderecoComplemento: input.EnderecoComplemento,
		EnderecoCEP:         cep,
		EnderecoCidade:      input.EnderecoCidade,
		EnderecoEstado:      input.EnderecoEstado,
		EnderecoBairro:      input.EnderecoBairro,
		Ativo:               true,
		StatusValidacao:     string(domain.StatusPending),
	}

	if err := s.institutionRepo.Create(ctx, institution); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	logger.Audit(ctx, s.log, "auth.register.institution").WithField("institution_id", institution.ID).Info("✅ Institution registered, pending approval")
	return institution.ToResponse(), nil
}
