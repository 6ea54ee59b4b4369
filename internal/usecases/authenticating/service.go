package authenticating

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/repository"
	"github.com/isacLima251/MeuPainel0.2/internal/config"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
)

// Authenticator valida os tokens emitidos pelo painel. A emissão fica fora
// desta API.
type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
	ValidateTenant(ctx context.Context, claims *domain.Claims) error
}

type Service struct {
	secretKey  string
	tenantRepo repository.TenantRepository
}

func NewService(cfg *config.Config, tenantRepo repository.TenantRepository) Authenticator {
	return &Service{
		secretKey:  cfg.Auth.Secret,
		tenantRepo: tenantRepo,
	}
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	if err := checkClaims(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// checkClaims garante que todo usuário fora do super admin está preso a um
// tenant, e que o atendente carrega o próprio id.
func checkClaims(claims *domain.Claims) error {
	switch claims.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleAdmin, domain.RoleAttendant:
	default:
		return NewUserAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, claims.UserID, fmt.Sprintf("perfil desconhecido %q", claims.Role))
	}

	if claims.TenantID == "" {
		return NewUserAuthError(ErrTenantRequired, apiErrors.ErrInvalidToken, claims.UserID, "")
	}

	if claims.Role == domain.RoleAttendant && (claims.AttendantID == nil || *claims.AttendantID == "") {
		return NewUserAuthError(ErrAttendantRequired, apiErrors.ErrInvalidToken, claims.UserID, "")
	}

	return nil
}

// ValidateTenant barra usuários de tenant desativado ou removido. O super admin
// não pertence a tenant e passa direto.
func (s *Service) ValidateTenant(ctx context.Context, claims *domain.Claims) error {
	if claims.IsSuperAdmin() {
		return nil
	}

	tenant, err := s.tenantRepo.GetByID(ctx, claims.TenantID)
	if err != nil {
		return NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, claims.UserID, err.Error())
	}

	if tenant == nil || !tenant.Active {
		return NewUserAuthError(ErrTenantDisabled, apiErrors.ErrTenantDisabled, claims.UserID, claims.TenantID)
	}

	return nil
}
