package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Card service errors
var (
	ErrCardAlreadyExists = fmt.Errorf("%w: card already issued for this guide dog", domain.ErrAlreadyExists)
)

const (
	cardCodeLength     = 10
	cardCreateAttempts = 3
)

// CardService issues and looks up guide dog identity cards.
// A card ties a PCD holder to one of their dogs and is verified by its code.
type CardService struct {
	cardRepo repositories.CardRepository
	dogRepo  repositories.GuideDogRepository
	log      *logrus.Logger
	newCode  func() string
}

// NewCardService creates a new card service
func NewCardService(
	cardRepo repositories.CardRepository,
	dogRepo repositories.GuideDogRepository,
	log *logrus.Logger,
) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		dogRepo:  dogRepo,
		log:      log,
		newCode:  newCardCode,
	}
}

func newCardCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:cardCodeLength]
}

// GenerateCardInput represents card issuance input
type GenerateCardInput struct {
	IDCao uint `json:"id_cao" validate:"required"`
}

// Generate issues the card of a dog owned by the calling user.
// A dog has at most one card.
func (s *CardService) Generate(ctx context.Context, identity *domain.Identity, input *GenerateCardInput) (*models.Card, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if identity.Role == domain.RoleInstitution {
		return nil, domain.ErrForbidden
	}

	dog, err := s.findOwnedDog(ctx, identity, input.IDCao)
	if err != nil {
		return nil, err
	}

	exists, err := s.cardRepo.ExistsForDog(ctx, dog.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCardAlreadyExists
	}

	card := &models.Card{IDUsuario: identity.ID, IDCao: dog.ID}
	for attempt := 1; ; attempt++ {
		card.Codigo = s.newCode()
		err = s.cardRepo.Create(ctx, card)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// Either the dog got a card meanwhile or the code collided
		exists, checkErr := s.cardRepo.ExistsForDog(ctx, dog.ID)
		if checkErr != nil {
			return nil, checkErr
		}
		if exists {
			return nil, ErrCardAlreadyExists
		}
		if attempt == cardCreateAttempts {
			return nil, fmt.Errorf("generate card code: %w", err)
		}
	}

	logger.Audit(ctx, s.log, "card.issued").WithFields(logrus.Fields{
		"user_id": identity.ID,
		"dog_id":  dog.ID,
	}).Info("Card issued")
	return card, nil
}

// GetByDog returns the card of a dog. Only the owner or an admin may read it.
func (s *CardService) GetByDog(ctx context.Context, identity *domain.Identity, dogID uint) (*models.Card, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !identity.IsAdmin {
		if _, err := s.findOwnedDog(ctx, identity, dogID); err != nil {
			return nil, err
		}
	}

	card, err := s.cardRepo.FindByDog(ctx, dogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return card, nil
}

// GetByCode verifies a card by its public code.
// Cards of deactivated holders or dogs are not found.
func (s *CardService) GetByCode(ctx context.Context, code string) (*models.CardDetails, error) {
	code = strings.TrimSpace(code)
	if len(code) != cardCodeLength {
		return nil, domain.ErrNotFound
	}

	details, err := s.cardRepo.FindDetailsByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return details, nil
}

func (s *CardService) findOwnedDog(ctx context.Context, identity *domain.Identity, dogID uint) (*models.GuideDog, error) {
	dog, err := s.dogRepo.FindActiveByID(ctx, dogID)
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
