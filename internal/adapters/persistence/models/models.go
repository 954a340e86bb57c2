package models

import (
	"time"

	"caoguia-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Principals (legacy schema, column names preserved)
// ============================================================

// User represents usuarios table
type User struct {
	ID                  uint      `gorm:"column:id;primaryKey" json:"id"`
	Nome                string    `gorm:"column:nome;size:150;not null" json:"nome"`
	Email               string    `gorm:"column:email;uniqueIndex;size:150;not null" json:"email"`
	Senha               string    `gorm:"column:senha;size:255;not null" json:"-"`
	CPF                 string    `gorm:"column:cpf;uniqueIndex;size:11" json:"cpf"`
	RG                  string    `gorm:"column:rg;size:14" json:"rg"`
	Sexo                string    `gorm:"column:sexo;size:10" json:"sexo"`
	DataNascimento      string    `gorm:"column:data_nascimento;size:10" json:"data_nascimento"`
	Telefone            string    `gorm:"column:telefone;size:20" json:"telefone"`
	EnderecoLogradouro  string    `gorm:"column:endereco_logradouro;size:200" json:"endereco_logradouro"`
	EnderecoNumero      string    `gorm:"column:endereco_numero;size:10" json:"endereco_numero"`
	EnderecoComplemento *string   `gorm:"column:endereco_complemento;size:100" json:"endereco_complemento"`
	EnderecoCEP         string    `gorm:"column:endereco_cep;size:8" json:"endereco_cep"`
	EnderecoCidade      string    `gorm:"column:endereco_cidade;size:100" json:"endereco_cidade"`
	EnderecoEstado      string    `gorm:"column:endereco_estado;size:2" json:"endereco_estado"`
	EnderecoBairro      string    `gorm:"column:endereco_bairro;size:100" json:"endereco_bairro"`
	IDInstituicao       *uint     `gorm:"column:id_instituicao;index" json:"id_instituicao"`
	Administrador       bool      `gorm:"column:administrador;default:false" json:"administrador"`
	Ativo               bool      `gorm:"column:ativo;default:true" json:"ativo"`
	StatusValidacao     string    `gorm:"column:status_validacao;size:20;default:'pendente'" json:"status_validacao"`
	MotivoRejeicao      *string   `gorm:"column:motivo_rejeicao;type:text" json:"motivo_rejeicao,omitempty"`
	CreatedAt           time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (User) TableName() string {
	return "usuarios"
}

// ToDomain converts the row to a domain user
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:             u.ID,
		Name:           u.Nome,
		Email:          u.Email,
		PasswordHash:   u.Senha,
		IsAdmin:        u.Administrador,
		IsActive:       u.Ativo,
		ApprovalStatus: domain.ApprovalStatus(u.StatusValidacao),
		CreatedAt:      u.CreatedAt,
	}
}

// UserResponse DTO
type UserResponse struct {
	ID              uint      `json:"id"`
	Nome            string    `json:"nome"`
	Email           string    `json:"email"`
	CPF             string    `json:"cpf"`
	Telefone        string    `json:"telefone"`
	EnderecoCidade  string    `json:"endereco_cidade"`
	EnderecoEstado  string    `json:"endereco_estado"`
	IDInstituicao   *uint     `json:"id_instituicao"`
	Administrador   bool      `json:"administrador"`
	Ativo           bool      `json:"ativo"`
	StatusValidacao string    `json:"status_validacao"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"criado_em"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Nome:            u.Nome,
		Email:           u.Email,
		CPF:             u.CPF,
		Telefone:        u.Telefone,
		EnderecoCidade:  u.EnderecoCidade,
		EnderecoEstado:  u.EnderecoEstado,
		IDInstituicao:   u.IDInstituicao,
		Administrador:   u.Administrador,
		Ativo:           u.Ativo,
		StatusValidacao: u.StatusValidacao,
		Role:            string(domain.UserRole(u.Administrador)),
		CreatedAt:       u.CreatedAt,
	}
}

// Institution represents instituicoes table
type Institution struct {
	ID                  uint      `gorm:"column:id;primaryKey" json:"id"`
	RazaoSocial         string    `gorm:"column:razao_social;size:200;not null" json:"razao_social"`
	CNPJ                string    `gorm:"column:cnpj;uniqueIndex;size:14;not null" json:"cnpj"`
	Email               string    `gorm:"column:email;uniqueIndex;size:150;not null" json:"email"`
	Senha               string    `gorm:"column:senha;size:255;not null" json:"-"`
	EnderecoLogradouro  string    `gorm:"column:endereco_logradouro;size:200" json:"endereco_logradouro"`
	EnderecoNumero      string    `gorm:"column:endereco_numero;size:10" json:"endereco_numero"`
	EnderecoComplemento *string   `gorm:"column:endereco_complemento;size:100" json:"endereco_complemento"`
	EnderecoCEP         string    `gorm:"column:endereco_cep;size:8" json:"endereco_cep"`
	EnderecoCidade      string    `gorm:"column:endereco_cidade;size:100" json:"endereco_cidade"`
	EnderecoEstado      string    `gorm:"column:endereco_estado;size:2" json:"endereco_estado"`
	EnderecoBairro      string    `gorm:"column:endereco_bairro;size:100" json:"endereco_bairro"`
	Ativo               bool      `gorm:"column:ativo;default:true" json:"ativo"`
	StatusValidacao     string    `gorm:"column:status_validacao;size:20;default:'pendente'" json:"status_validacao"`
	MotivoRejeicao      *string   `gorm:"column:motivo_rejeicao;type:text" json:"motivo_rejeicao,omitempty"`
	CreatedAt           time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (Institution) TableName() string {
	return "instituicoes"
}

// ToDomain converts the row to a domain institution
func (i *Institution) ToDomain() *domain.Institution {
	return &domain.Institution{
		ID:             i.ID,
		LegalName:      i.RazaoSocial,
		CNPJ:           i.CNPJ,
		Email:          i.Email,
		PasswordHash:   i.Senha,
		ApprovalStatus: domain.ApprovalStatus(i.StatusValidacao),
		IsActive:       i.Ativo,
		CreatedAt:      i.CreatedAt,
	}
}

// InstitutionResponse DTO
type InstitutionResponse struct {
	ID                 uint    `json:"id"`
	RazaoSocial        string  `json:"razao_social"`
	CNPJ               string  `json:"cnpj"`
	Email              string  `json:"email"`
	EnderecoLogradouro string  `json:"endereco_logradouro"`
	EnderecoNumero     string  `json:"endereco_numero"`
	EnderecoCidade     string  `json:"endereco_cidade"`
	EnderecoEstado     string  `json:"endereco_estado"`
	Ativo              bool    `json:"ativo"`
	StatusValidacao    string  `json:"status_validacao"`
	MotivoRejeicao     *string `json:"motivo_rejeicao,omitempty"`
}

func (i *Institution) ToResponse() *InstitutionResponse {
	return &InstitutionResponse{
		ID:                 i.ID,
		RazaoSocial:        i.RazaoSocial,
		CNPJ:               i.CNPJ,
		Email:              i.Email,
		EnderecoLogradouro: i.EnderecoLogradouro,
		EnderecoNumero:     i.EnderecoNumero,
		EnderecoCidade:     i.EnderecoCidade,
		EnderecoEstado:     i.EnderecoEstado,
		Ativo:              i.Ativo,
		StatusValidacao:    i.StatusValidacao,
		MotivoRejeicao:     i.MotivoRejeicao,
	}
}

// ============================================================
// Guide dogs
// ============================================================

// GuideDog represents caes_guia table
type GuideDog struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Nome           string    `gorm:"column:nome;size:100;not null" json:"nome"`
	Sexo           string    `gorm:"column:sexo;size:10" json:"sexo"`
	Cor            string    `gorm:"column:cor;size:50" json:"cor"`
	DataNascimento string    `gorm:"column:data_nascimento;size:10" json:"data_nascimento"`
	Raca           string    `gorm:"column:raca;size:100" json:"raca"`
	NumeroRegistro string    `gorm:"column:numero_registro;uniqueIndex;size:50;not null" json:"numero_registro"`
	IDInstituicao  *uint     `gorm:"column:id_instituicao;index" json:"id_instituicao"`
	IDUsuario      *uint     `gorm:"column:id_usuario;index" json:"id_usuario"`
	Imagem         *string   `gorm:"column:imagem;size:255" json:"imagem"`
	Ativo          bool      `gorm:"column:ativo;default:true" json:"ativo"`
	CreatedAt      time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (GuideDog) TableName() string {
	return "caes_guia"
}

// ToDomain converts the row to a domain guide dog
func (g *GuideDog) ToDomain() *domain.GuideDog {
	return &domain.GuideDog{
		ID:                 g.ID,
		Name:               g.Nome,
		Sex:                g.Sexo,
		Color:              g.Cor,
		BirthDate:          g.DataNascimento,
		Breed:              g.Raca,
		RegistrationNumber: g.NumeroRegistro,
		UserID:             g.IDUsuario,
		InstitutionID:      g.IDInstituicao,
		IsActive:           g.Ativo,
		CreatedAt:          g.CreatedAt,
	}
}

// ============================================================
// Identity cards
// ============================================================

// Card represents carteiras table, the digital identity card of a guide dog.
// The QR image is rendered elsewhere; only its path is kept here.
type Card struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	IDUsuario  uint      `gorm:"column:id_usuario;index;not null" json:"id_usuario"`
	IDCao      uint      `gorm:"column:id_cao;uniqueIndex;not null" json:"id_cao"`
	Codigo     string    `gorm:"column:codigo;uniqueIndex;size:10;not null" json:"codigo"`
	QRCodePath *string   `gorm:"column:qr_code_path;size:255" json:"qr_code_path"`
	CreatedAt  time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (Card) TableName() string {
	return "carteiras"
}

// CardDetails is a card joined with its holder and dog
type CardDetails struct {
	Card
	UsuarioNome    string `gorm:"column:usuario_nome" json:"usuario_nome"`
	UsuarioCPF     string `gorm:"column:usuario_cpf" json:"usuario_cpf"`
	CaoNome        string `gorm:"column:cao_nome" json:"cao_nome"`
	NumeroRegistro string `gorm:"column:numero_registro" json:"numero_registro"`
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Institution{},
		&GuideDog{},
		&Card{},
	)
}
