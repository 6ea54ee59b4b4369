package middleware

import (
	"net/http"
	"slices"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/pkg/apiErrors"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
)

// RoleMiddleware restringe a rota aos papéis informados. Papéis de tenant
// precisam de um tenant no token.
func RoleMiddleware(allowedRoles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !slices.Contains(allowedRoles, claims.Role) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id": claims.UserID,
					"role":    claims.Role,
					"path":    r.URL.Path,
				}).Warn("Acesso negado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			if !claims.IsSuperAdmin() && claims.TenantID == "" {
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Token sem tenant", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func SuperAdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin)
}

func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// AdminOrAttendant libera a rota para o atendente, que enxerga apenas os próprios dados
func AdminOrAttendant() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleAttendant)
}
