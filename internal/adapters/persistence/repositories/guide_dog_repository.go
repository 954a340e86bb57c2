package repositories

import (
	"context"

	"caoguia-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Owner columns of caes_guia
const (
	DogOwnerUser        = "id_usuario"
	DogOwnerInstitution = "id_instituicao"
)

var guideDogProfileColumns = []string{
	"nome", "sexo", "cor", "data_nascimento", "raca", "numero_registro",
}

// guideDogRepository implements GuideDogRepository interface
type guideDogRepository struct {
	db *gorm.DB
}

// NewGuideDogRepository creates a new guide dog repository
func NewGuideDogRepository(db *gorm.DB) GuideDogRepository {
	return &guideDogRepository{db: db}
}

// Create creates a new guide dog
func (r *guideDogRepository) Create(ctx context.Context, dog *models.GuideDog) error {
	return r.db.WithContext(ctx).Create(dog).Error
}

// ExistsByRegistration checks if a registration number is taken
func (r *guideDogRepository) ExistsByRegistration(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GuideDog{}).
		Where("numero_registro = ?", number).
		Count(&count).Error
	return count > 0, err
}

// RegistrationTakenByOther checks if a registration number belongs to another dog
func (r *guideDogRepository) RegistrationTakenByOther(ctx context.Context, number string, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GuideDog{}).
		Where("numero_registro = ? AND id <> ?", number, id).
		Count(&count).Error
	return count > 0, err
}

// UpdateForOwner writes the descriptive columns of an active dog,
// matching only when ownerColumn still holds ownerID.
func (r *guideDogRepository) UpdateForOwner(ctx context.Context, dog *models.GuideDog, ownerColumn string, ownerID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GuideDog{}).
		Where("id = ? AND ativo = ?", dog.ID, true).
		Where(clause.Eq{Column: clause.Column{Name: ownerColumn}, Value: ownerID}).
		Select(guideDogProfileColumns).
		Updates(dog)
	return result.RowsAffected > 0, result.Error
}

// ListActiveByUser lists active dogs owned by a user
func (r *guideDogRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*models.GuideDog, error) {
	var dogs []*models.GuideDog
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", userID).
		Where("ativo = ?", true).
		Order("id ASC").
		Find(&dogs).Error
	if err != nil {
		return nil, err
	}
	return dogs, nil
}

// ListActiveByInstitution lists active dogs linked to an institution
func (r *guideDogRepository) ListActiveByInstitution(ctx context.Context, institutionID uint) ([]*models.GuideDog, error) {
	var dogs []*models.GuideDog
	err := r.db.WithContext(ctx).
		Where("id_instituicao = ?", institutionID).
		Where("ativo = ?", true).
		Order("id ASC").
		Find(&dogs).Error
	if err != nil {
		return nil, err
	}
	return dogs, nil
}

// FindActiveByID gets an active guide dog by ID
func (r *guideDogRepository) FindActiveByID(ctx context.Context, id uint) (*models.GuideDog, error) {
	var dog models.GuideDog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("ativo = ?", true).
		First(&dog).Error
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

// Deactivate soft-deletes a guide dog
func (r *guideDogRepository) Deactivate(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GuideDog{}).
		Where("id = ?", id).
		Where("ativo = ?", true).
		Update("ativo", false)
	return result.RowsAffected > 0, result.Error
}
