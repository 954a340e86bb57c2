package repositories

import (
	"context"

	"caoguia-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// institutionRepository implements InstitutionRepository interface
type institutionRepository struct {
	db *gorm.DB
}

// NewInstitutionRepository creates a new institution repository
func NewInstitutionRepository(db *gorm.DB) InstitutionRepository {
	return &institutionRepository{db: db}
}

// FindByEmail gets an institution by email, active or not
func (r *institutionRepository) FindByEmail(ctx context.Context, email string) (*models.Institution, error) {
	var institution models.Institution
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&institution).Error
	if err != nil {
		return nil, err
	}
	return &institution, nil
}

// FindActiveByID gets an active institution by ID
func (r *institutionRepository) FindActiveByID(ctx context.Context, id uint) (*models.Institution, error) {
	var institution models.Institution
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("ativo = ?", true).
		First(&institution).Error
	if err != nil {
		return nil, err
	}
	return &institution, nil
}

// FindByCNPJ gets an institution by CNPJ digits
func (r *institutionRepository) FindByCNPJ(ctx context.Context, cnpj string) (*models.Institution, error) {
	var institution models.Institution
	err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&institution).Error
	if err != nil {
		return nil, err
	}
	return &institution, nil
}

// Create creates a new institution
func (r *institutionRepository) Create(ctx context.Context, institution *models.Institution) error {
	return r.db.WithContext(ctx).Create(institution).Error
}

var institutionProfileColumns = []string{
	"razao_social", "email",
	"endereco_logradouro", "endereco_numero", "endereco_complemento",
	"endereco_cep", "endereco_cidade", "endereco_estado", "endereco_bairro",
}

// Update writes the profile columns of an active institution.
// CNPJ, ativo and the approval columns are never written here.
func (r *institutionRepository) Update(ctx context.Context, institution *models.Institution) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Institution{}).
		Where("id = ? AND ativo = ?", institution.ID, true).
		Select(institutionProfileColumns).
		Updates(institution)
	return result.RowsAffected > 0, result.Error
}

// ExistsByEmailOrCNPJ checks if email or CNPJ is already registered
func (r *institutionRepository) ExistsByEmailOrCNPJ(ctx context.Context, email, cnpj string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Institution{}).
		Where("email = ? OR cnpj = ?", email, cnpj).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther checks if email belongs to a row other than id
func (r *institutionRepository) EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Institution{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	return count > 0, err
}

// ListByApprovalStatus lists institutions in an approval status with pagination
func (r *institutionRepository) ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.Institution, int64, error) {
	var institutions []*models.Institution
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Institution{}).Where("status_validacao = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Where("status_validacao = ?", status).Order("id ASC").Offset(offset).Limit(limit).Find(&institutions).Error; err != nil {
		return nil, 0, err
	}

	return institutions, total, nil
}

// SetApprovalStatus updates approval status and rejection reason
func (r *institutionRepository) SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Institution{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status_validacao": status,
			"motivo_rejeicao":  reason,
		})
	return result.RowsAffected > 0, result.Error
}
