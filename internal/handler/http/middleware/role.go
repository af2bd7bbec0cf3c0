package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/promoterhub/workforce-backend-go/internal/handler/http/response"
)

// Roles carried in the JWT "role" claim.
const (
	RoleOwner    = "owner"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// RequireReviewer restricts the approval and admin surfaces to managers and
// owners.
func RequireReviewer(next http.Handler) http.Handler {
	return requireRole(next, RoleManager, RoleOwner)
}

// RequireEmployee restricts the punch surface to identities bound to an
// employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Forbidden(w, "This action requires an employee account")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requireRole(next http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "Insufficient permissions")
			return
		}

		for _, a := range allowed {
			if role == a {
				next.ServeHTTP(w, r)
				return
			}
		}

		response.Forbidden(w, fmt.Sprintf("Insufficient permissions for role '%s'", role))
	})
}
