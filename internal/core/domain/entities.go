package domain

import "time"

// Role represents the derived access category of a principal
type Role string

const (
	RolePCD         Role = "PCD"
	RoleAdmin       Role = "ADMIN"
	RoleInstitution Role = "INSTITUICAO"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePCD, RoleAdmin, RoleInstitution:
		return true
	}
	return false
}

// UserRole derives the role of a user account from its admin flag
func UserRole(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RolePCD
}

// PrincipalKind selects which backing table a login targets
type PrincipalKind string

const (
	KindUser        PrincipalKind = "user"
	KindInstitution PrincipalKind = "institution"
)

// ParsePrincipalKind parses a principal kind from client input
func ParsePrincipalKind(s string) (PrincipalKind, error) {
	switch PrincipalKind(s) {
	case KindUser, KindInstitution:
		return PrincipalKind(s), nil
	}
	return "", ErrInvalidInput
}

// ApprovalStatus is the registration lifecycle gate
type ApprovalStatus string

// Stored values follow the legacy schema
const (
	StatusPending  ApprovalStatus = "pendente"
	StatusApproved ApprovalStatus = "aprovado"
	StatusRejected ApprovalStatus = "rejeitado"
)

// ParseApprovalStatus accepts both the stored values and their English names
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch s {
	case "pendente", "pending":
		return StatusPending, nil
	case "aprovado", "approved":
		return StatusApproved, nil
	case "rejeitado", "rejected":
		return StatusRejected, nil
	}
	return "", ErrInvalidStatus
}

// User represents a PCD user or an administrator
type User struct {
	ID             uint
	Name           string
	Email          string
	PasswordHash   string
	IsAdmin        bool
	IsActive       bool
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
}

// Role returns the derived role of the user
func (u *User) Role() Role {
	return UserRole(u.IsAdmin)
}

// Institution represents a partner institution.
// Its ID space is disjoint from User IDs.
type Institution struct {
	ID             uint
	LegalName      string
	CNPJ           string
	Email          string
	PasswordHash   string
	ApprovalStatus ApprovalStatus
	IsActive       bool
	CreatedAt      time.Time
}

// Principal is a tagged variant: exactly one of User or Institution is set
type Principal struct {
	User        *User
	Institution *Institution
}

// Kind returns which variant the principal holds
func (p Principal) Kind() PrincipalKind {
	if p.Institution != nil {
		return KindInstitution
	}
	return KindUser
}

// Role derives the role from the stored flags, as done at login
func (p Principal) Role() Role {
	if p.Institution != nil {
		return RoleInstitution
	}
	return p.User.Role()
}

// Identity is the request-scoped view of a re-validated principal
type Identity struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	Role    Role   `json:"role"`
}

// IdentityFromPrincipal builds an identity from a freshly fetched principal.
// claimed is the role the token was issued with: admin privilege needs both
// that claim and the current row flag, so a demotion applies at once and a
// promotion only from the next login.
func IdentityFromPrincipal(p Principal, claimed Role) *Identity {
	if p.Institution != nil {
		return &Identity{
			ID:      p.Institution.ID,
			Name:    p.Institution.LegalName,
			IsAdmin: false,
			Role:    RoleInstitution,
		}
	}
	isAdmin := p.User.IsAdmin && claimed == RoleAdmin
	return &Identity{
		ID:      p.User.ID,
		Name:    p.User.Name,
		IsAdmin: isAdmin,
		Role:    UserRole(isAdmin),
	}
}

// GuideDog represents a guide dog record
type GuideDog struct {
	ID                 uint
	Name               string
	Sex                string
	Color              string
	BirthDate          string
	Breed              string
	RegistrationNumber string
	UserID             *uint
	InstitutionID      *uint
	IsActive           bool
	CreatedAt          time.Time
}
