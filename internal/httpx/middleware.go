package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sistertele/phonestore/internal/admin"
)

// HeaderPrincipal carries the caller identity established by the upstream
// auth layer. The auth protocol itself is outside this service.
const HeaderPrincipal = "X-Principal"

func principal(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderPrincipal))
}

// RequireAdmin guards privileged routes. A timed-out check is surfaced as
// 504, never as a denial; 403 means the backend answered and said no.
func RequireAdmin(svc *admin.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principal(r)
			if p == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing "+HeaderPrincipal+" header")
				return
			}
			ok, err := svc.IsCallerAdmin(r.Context(), p)
			switch {
			case errors.Is(err, admin.ErrCheckTimeout):
				writeError(w, http.StatusGatewayTimeout, "ADMIN_CHECK_TIMEOUT", "admin verification timed out, retry")
			case errors.Is(err, admin.ErrUnavailable):
				writeError(w, http.StatusNotImplemented, "ADMIN_CHECK_UNAVAILABLE", "admin check is not available on this backend")
			case err != nil:
				writeError(w, http.StatusInternalServerError, "ADMIN_CHECK_FAILED", err.Error())
			case !ok:
				writeError(w, http.StatusForbidden, "ACCESS_DENIED", "admin access required")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
