package middleware

import (
	"net/http"

	"github.com/mohib357/mamstar-plan/api/responses"
	"github.com/mohib357/mamstar-plan/pkg/enums"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
)

// RequirePermission rejects callers whose token does not grant p. Admins pass.
func RequirePermission(p enums.Permission, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !claims.Allows(p) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, string(p)+" permission required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
