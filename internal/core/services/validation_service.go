package services

import (
	"context"
	"strings"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/pagination"

	"github.com/sirupsen/logrus"
)

// ValidationService handles the registration approval workflow.
// Callers are expected to be behind an AdminOnly gate.
type ValidationService struct {
	userRepo        repositories.UserRepository
	institutionRepo repositories.InstitutionRepository
	log             *logrus.Logger
}

// NewValidationService creates a new validation service
func NewValidationService(
	userRepo repositories.UserRepository,
	institutionRepo repositories.InstitutionRepository,
	log *logrus.Logger,
) *ValidationService {
	return &ValidationService{
		userRepo:        userRepo,
		institutionRepo: institutionRepo,
		log:             log,
	}
}

// SetStatusInput represents an approval decision
type SetStatusInput struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"motivo_rejeicao"`
}

// List returns registrations of kind in the given approval status.
// The returned slice holds *models.UserResponse or *models.InstitutionResponse.
func (s *ValidationService) List(ctx context.Context, kind domain.PrincipalKind, status domain.ApprovalStatus, params *pagination.Params) (interface{}, int64, error) {
	switch kind {
	case domain.KindUser:
		users, total, err := s.userRepo.ListByApprovalStatus(ctx, string(status), params.Offset, params.Limit)
		if err != nil {
			return nil, 0, err
		}
		items := make([]*models.UserResponse, len(users))
		for i, u := range users {
			items[i] = u.ToResponse()
		}
		return items, total, nil

	case domain.KindInstitution:
		institutions, total, err := s.institutionRepo.ListByApprovalStatus(ctx, string(status), params.Offset, params.Limit)
		if err != nil {
			return nil, 0, err
		}
		items := make([]*models.InstitutionResponse, len(institutions))
		for i, inst := range institutions {
			items[i] = inst.ToResponse()
		}
		return items, total, nil
	}
	return nil, 0, domain.ErrInvalidInput
}

// SetStatus moves a registration to a new approval status.
// Any transition is allowed; the reason is kept only for rejections.
func (s *ValidationService) SetStatus(ctx context.Context, actor *domain.Identity, kind domain.PrincipalKind, id uint, input *SetStatusInput) error {
	status, err := domain.ParseApprovalStatus(input.Status)
	if err != nil {
		return err
	}

	var reason *string
	if status == domain.StatusRejected && input.Reason != nil {
		if r := strings.TrimSpace(*input.Reason); r != "" {
			reason = &r
		}
	}

	var ok bool
	switch kind {
	case domain.KindUser:
		ok, err = s.userRepo.SetApprovalStatus(ctx, id, string(status), reason)
	case domain.KindInstitution:
		ok, err = s.institutionRepo.SetApprovalStatus(ctx, id, string(status), reason)
	default:
		return domain.ErrInvalidInput
	}
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	fields := logrus.Fields{
		"kind":      kind,
		"target_id": id,
		"status":    status,
	}
	if actor != nil {
		fields["actor_id"] = actor.ID
	}
	logger.Audit(ctx, s.log, "validation.status_changed").WithFields(fields).Info("Approval status changed")
	return nil
}
