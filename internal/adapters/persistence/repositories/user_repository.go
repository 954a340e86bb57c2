package repositories

import (
	"context"

	"caoguia-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindActiveByEmail gets an active user by email
func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Where("ativo = ?", true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByID gets an active user by ID
func (r *userRepository) FindActiveByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("ativo = ?", true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// userProfileColumns are the columns a profile update may write.
// ativo, administrador and the approval columns have their own statements.
var userProfileColumns = []string{
	"nome", "email", "telefone",
	"endereco_logradouro", "endereco_numero", "endereco_complemento",
	"endereco_cep", "endereco_cidade", "endereco_estado", "endereco_bairro",
}

// Update writes the profile columns of an active user.
// It reports false when the row is gone or was deactivated meanwhile.
func (r *userRepository) Update(ctx context.Context, user *models.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND ativo = ?", user.ID, true).
		Select(userProfileColumns).
		Updates(user)
	return result.RowsAffected > 0, result.Error
}

// SetAdmin sets the admin flag of an active user
func (r *userRepository) SetAdmin(ctx context.Context, id uint, isAdmin bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND ativo = ?", id, true).
		Update("administrador", isAdmin)
	return result.RowsAffected > 0, result.Error
}

// Deactivate soft deletes a user by clearing ativo
func (r *userRepository) Deactivate(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Where("ativo = ?", true).
		Update("ativo", false)
	return result.RowsAffected > 0, result.Error
}

// ExistsByEmailOrCPF checks if email or CPF is already registered
func (r *userRepository) ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR cpf = ?", email, cpf).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther checks if email belongs to a row other than id
func (r *userRepository) EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	return count > 0, err
}

// ListByApprovalStatus lists users in an approval status with pagination
func (r *userRepository) ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("status_validacao = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Where("status_validacao = ?", status).Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SetApprovalStatus updates approval status and rejection reason
func (r *userRepository) SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status_validacao": status,
			"motivo_rejeicao":  reason,
		})
	return result.RowsAffected > 0, result.Error
}
