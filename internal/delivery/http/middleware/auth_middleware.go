package middleware

import (
	"net/http"
	"strings"

	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/auth"
	"board-champions-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.SessionClaims, error)
}

// bearerToken reads the session token from the Authorization header, then
// from the __session cookie Clerk sets for same-site frontends.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("__session"); err == nil {
		return cookie
	}
	return ""
}

// identify verifies the token and resolves the caller's local user, creating
// it on first sight. The role always comes from the database, never from the
// token. The claims are returned even when the user cannot be resolved.
func identify(c *gin.Context, verifier TokenVerifier, authUC domain.AuthUsecase, token string) (*domain.User, *auth.SessionClaims, error) {
	claims, err := verifier.Verify(token)
	if err != nil {
		return nil, nil, err
	}
	user, err := authUC.EnsureUser(c.Request.Context(), domain.Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		ImageURL:  claims.ImageURL,
	})
	return user, claims, err
}

func setIdentity(c *gin.Context, user *domain.User, email string) {
	role := user.Role
	if role == "" {
		role = domain.RoleCandidate
	}
	if email == "" {
		email = user.Email
	}
	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), email)
	c.Set(string(domain.KeyUserRole), role)
}

func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or session cookie required", nil)
			c.Abort()
			return
		}

		user, claims, err := identify(c, verifier, authUC, token)
		if claims == nil {
			logger.Log.Info("authentication failed", "error", err, "path", c.FullPath())
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		setIdentity(c, user, claims.Email)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and
// otherwise lets the request through as anonymous. A bad token is not an error
// on public routes; it just earns the anonymous view. A verified session whose
// user cannot be resolved still counts as signed in, with the candidate role.
func OptionalAuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			user, claims, err := identify(c, verifier, authUC, token)
			switch {
			case claims == nil:
				logger.Log.Debug("optional auth ignored token", "error", err)
			case err != nil:
				logger.Log.Warn("session user unresolved", "error", err, "subject", claims.Subject)
				setIdentity(c, &domain.User{ID: claims.Subject, Role: domain.RoleCandidate}, claims.Email)
			default:
				setIdentity(c, user, claims.Email)
			}
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
		c.Abort()
	}
}
