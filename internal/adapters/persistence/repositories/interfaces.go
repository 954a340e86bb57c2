package repositories

import (
	"context"

	"caoguia-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface.
// The FindActive* lookups filter on ativo in the query itself.
type UserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindActiveByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) (bool, error)
	SetAdmin(ctx context.Context, id uint, isAdmin bool) (bool, error)
	Deactivate(ctx context.Context, id uint) (bool, error)
	ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error)
	ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.User, int64, error)
	SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error)
}

// InstitutionRepository defines institution repository interface
type InstitutionRepository interface {
	// FindByEmail returns the row regardless of ativo; the caller applies approval rules
	FindByEmail(ctx context.Context, email string) (*models.Institution, error)
	FindActiveByID(ctx context.Context, id uint) (*models.Institution, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*models.Institution, error)
	Create(ctx context.Context, institution *models.Institution) error
	Update(ctx context.Context, institution *models.Institution) (bool, error)
	ExistsByEmailOrCNPJ(ctx context.Context, email, cnpj string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error)
	ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.Institution, int64, error)
	SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error)
}

// GuideDogRepository defines guide dog repository interface
type GuideDogRepository interface {
	Create(ctx context.Context, dog *models.GuideDog) error
	ExistsByRegistration(ctx context.Context, number string) (bool, error)
	RegistrationTakenByOther(ctx context.Context, number string, id uint) (bool, error)
	UpdateForOwner(ctx context.Context, dog *models.GuideDog, ownerColumn string, ownerID uint) (bool, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*models.GuideDog, error)
	ListActiveByInstitution(ctx context.Context, institutionID uint) ([]*models.GuideDog, error)
	FindActiveByID(ctx context.Context, id uint) (*models.GuideDog, error)
	Deactivate(ctx context.Context, id uint) (bool, error)
}

// CardRepository defines guide dog card repository interface
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	ExistsForDog(ctx context.Context, dogID uint) (bool, error)
	FindByDog(ctx context.Context, dogID uint) (*models.Card, error)
	// FindDetailsByCode joins the holder and the dog; both must be active
	FindDetailsByCode(ctx context.Context, code string) (*models.CardDetails, error)
}
