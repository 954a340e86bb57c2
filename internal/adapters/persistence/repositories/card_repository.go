package repositories

import (
	"context"

	"caoguia-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// cardRepository implements CardRepository interface
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create creates a new card
func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// ExistsForDog checks if a dog already has a card
func (r *cardRepository) ExistsForDog(ctx context.Context, dogID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id_cao = ?", dogID).
		Count(&count).Error
	return count > 0, err
}

// FindByDog gets the card of a dog
func (r *cardRepository) FindByDog(ctx context.Context, dogID uint) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Where("id_cao = ?", dogID).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// FindDetailsByCode gets a card by its public code with holder and dog data
func (r *cardRepository) FindDetailsByCode(ctx context.Context, code string) (*models.CardDetails, error) {
	var details models.CardDetails
	err := r.db.WithContext(ctx).
		Table("carteiras").
		Select("carteiras.*, usuarios.nome AS usuario_nome, usuarios.cpf AS usuario_cpf, caes_guia.nome AS cao_nome, caes_guia.numero_registro").
		Joins("JOIN usuarios ON carteiras.id_usuario = usuarios.id").
		Joins("JOIN caes_guia ON carteiras.id_cao = caes_guia.id").
		Where("carteiras.codigo = ?", code).
		Where("usuarios.ativo = ?", true).
		Where("caes_guia.ativo = ?", true).
		Take(&details).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}
