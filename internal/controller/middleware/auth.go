package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/akshayds23/Whizrobo/internal/controller/common"
	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Claims is the access token payload. sub carries the user id, or the robot id for robot tokens.
type Claims struct {
	OrgID        *int64          `json:"org_id"`
	TokenType    model.TokenType `json:"token_type"`
	Permissions  []string        `json:"permissions"`
	IsSuperadmin bool            `json:"is_superadmin"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into the identity used by the services
func (c *Claims) Caller() (*model.Caller, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid subject %q", c.Subject)
	}

	if c.TokenType != model.TokenTypeUser && c.TokenType != model.TokenTypeRobot {
		return nil, fmt.Errorf("invalid token type %q", c.TokenType)
	}

	return &model.Caller{
		SubjectID:    id,
		OrgID:        c.OrgID,
		TokenType:    c.TokenType,
		IsSuperadmin: c.IsSuperadmin,
		Permissions:  c.Permissions,
	}, nil
}

// Authenticate verifies the HS256 bearer token, which must carry exp, and puts the caller into the request context
func Authenticate(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.WriteError(w, r, fmt.Errorf("%w: missing authorization header", common.ErrUnauthorized))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				common.WriteError(w, r, fmt.Errorf("%w: invalid authorization header format", common.ErrUnauthorized))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !token.Valid {
				logger.Debug("Rejected bearer token", zap.Error(err))
				common.WriteError(w, r, fmt.Errorf("%w: invalid token", common.ErrUnauthorized))
				return
			}

			caller, err := claims.Caller()
			if err != nil {
				logger.Debug("Rejected token claims", zap.Error(err))
				common.WriteError(w, r, fmt.Errorf("%w: invalid token claims", common.ErrUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func WithCaller(ctx context.Context, caller *model.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

func CallerFromContext(ctx context.Context) (*model.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(*model.Caller)
	return caller, ok && caller != nil
}

// RequireRobot admits robot tokens only
func RequireRobot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			common.WriteError(w, r, common.ErrUnauthorized)
			return
		}
		if !caller.IsRobot() {
			common.WriteError(w, r, fmt.Errorf("%w: robot token required", common.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser admits user tokens only
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			common.WriteError(w, r, common.ErrUnauthorized)
			return
		}
		if caller.IsRobot() {
			common.WriteError(w, r, fmt.Errorf("%w: user token required", common.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission admits callers holding the permission key; superadmins always pass
func RequirePermission(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				common.WriteError(w, r, common.ErrUnauthorized)
				return
			}
			if !caller.HasPermission(key) {
				common.WriteError(w, r, fmt.Errorf("%w: missing permission %s", common.ErrForbidden, key))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
