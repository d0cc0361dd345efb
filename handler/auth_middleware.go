package handler

import (
	"context"
	"net/http"
	"stellarone-api/common"
	"stellarone-api/config"
	"stellarone-api/model"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey        contextKey = "userID"
	UserRoleKey      contextKey = "userRole"
	AccountNumberKey contextKey = "accountNumber"
)

// tokenFromRequest extracts the bearer token from the Authorization header,
// falling back to the session cookie for browser navigations.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) == 2 && strings.EqualFold(headerParts[0], "bearer") {
			return headerParts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func parseClaims(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	jwtKey := []byte(config.AppConfig.JWT.SecretKey)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// AuthMiddleware gates API routes: a missing or invalid token ends the request
// with a 401 JSON body. On success the caller's identity lands in the request
// context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			err := common.NewAppError(common.KindUnauthorized, "Authorization is required", nil)
			err.Send(w)
			return
		}

		claims, err := parseClaims(tokenString)
		if err != nil {
			appErr := common.NewAppError(common.KindUnauthorized, "Invalid or expired token", err)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
		ctx = context.WithValue(ctx, AccountNumberKey, claims.AccountNumber)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware requires the role claim captured at token issuance to be
// ADMIN. Runs after AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleKey).(string)

		if !ok || role != string(model.RoleAdmin) {
			err := common.NewAppError(common.KindForbidden, "Access denied. Admin privileges required.", nil)
			err.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// PageGateMiddleware protects the dashboard page prefixes. Browser navigations
// without a valid session cookie are redirected to the login page; a USER
// session hitting the admin dashboard lands on the user dashboard instead.
func PageGateMiddleware(adminOnly bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AccessTokenCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		claims, err := parseClaims(cookie.Value)
		if err != nil {
			ClearSessionCookies(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if adminOnly && claims.Role != string(model.RoleAdmin) {
			http.Redirect(w, r, "/user-dashboard", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext pulls the authenticated identity set by AuthMiddleware.
func userFromContext(r *http.Request) (int, string, *common.AppError) {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return 0, "", common.NewAppError(common.KindUnauthorized, "Invalid user ID in token", nil)
	}
	role, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return 0, "", common.NewAppError(common.KindUnauthorized, "Invalid user role in token", nil)
	}
	return userID, role, nil
}

func isAdmin(role string) bool {
	return role == string(model.RoleAdmin)
}
