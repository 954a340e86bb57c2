package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/core/domain"
	"caoguia-api/internal/pkg/jwt"
	"caoguia-api/internal/pkg/logger"
	"caoguia-api/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExtractBearer returns the token carried by an Authorization header
func ExtractBearer(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrUnauthenticated
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// IdentityService turns a bearer token into a re-validated identity.
// Every call hits the store; token claims alone are never trusted.
type IdentityService struct {
	userRepo        repositories.UserRepository
	institutionRepo repositories.InstitutionRepository
	codec           *jwt.Codec
	log             *logrus.Logger
	metrics         *metrics.Auth
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	userRepo repositories.UserRepository,
	institutionRepo repositories.InstitutionRepository,
	codec *jwt.Codec,
	log *logrus.Logger,
	m *metrics.Auth,
) *IdentityService {
	return &IdentityService{
		userRepo:        userRepo,
		institutionRepo: institutionRepo,
		codec:           codec,
		log:             log,
		metrics:         m,
	}
}

// Resolve decodes the token and fetches the active principal it names
func (s *IdentityService) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, s.resolveFailed(ctx, metrics.OutcomeMissingToken, domain.ErrUnauthenticated)
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, s.resolveFailed(ctx, metrics.OutcomeExpired,
				fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenExpired))
		}
		return nil, s.resolveFailed(ctx, metrics.OutcomeInvalid,
			fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenInvalid))
	}

	var principal domain.Principal
	switch domain.Role(claims.Role) {
	case domain.RoleInstitution:
		row, err := s.institutionRepo.FindActiveByID(ctx, claims.ID)
		if err != nil {
			return nil, s.lookupFailed(ctx, err)
		}
		principal.Institution = row.ToDomain()
	case domain.RolePCD, domain.RoleAdmin:
		row, err := s.userRepo.FindActiveByID(ctx, claims.ID)
		if err != nil {
			return nil, s.lookupFailed(ctx, err)
		}
		principal.User = row.ToDomain()
	default:
		return nil, s.resolveFailed(ctx, metrics.OutcomeInvalid,
			fmt.Errorf("%w: %w: unknown role %q", domain.ErrUnauthenticated, domain.ErrTokenInvalid, claims.Role))
	}

	s.metrics.Resolved(metrics.OutcomeSuccess)
	return domain.IdentityFromPrincipal(principal, domain.Role(claims.Role)), nil
}

func (s *IdentityService) lookupFailed(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.resolveFailed(ctx, metrics.OutcomeNotFound, domain.ErrPrincipalNotFound)
	}
	s.metrics.Resolved(metrics.OutcomeError)
	return fmt.Errorf("resolve principal: %w", err)
}

func (s *IdentityService) resolveFailed(ctx context.Context, outcome string, err error) error {
	s.metrics.Resolved(outcome)
	logger.Audit(ctx, s.log, "auth.resolve.failure").WithField("reason", outcome).Debug("Token rejected")
	return err
}
