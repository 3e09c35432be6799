package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func userClaims(sub string, orgID *int64, permissions ...string) *Claims {
	return &Claims{
		OrgID:       orgID,
		TokenType:   model.TokenTypeUser,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func callerEcho(t *testing.T, got **model.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		require.True(t, ok)
		*got = caller
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	org := int64(4)
	claims := userClaims("17", &org, model.PermissionIssueLicense)
	token := signClaims(t, jwt.SigningMethodHS256, testSecret, claims)

	var caller *model.Caller
	handler := Authenticate(testSecret, zap.NewNop())(callerEcho(t, &caller))

	req := httptest.NewRequest(http.MethodGet, "/robots", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, caller)
	assert.Equal(t, int64(17), caller.SubjectID)
	require.NotNil(t, caller.OrgID)
	assert.Equal(t, int64(4), *caller.OrgID)
	assert.Equal(t, model.TokenTypeUser, caller.TokenType)
	assert.True(t, caller.HasPermission(model.PermissionIssueLicense))
	assert.False(t, caller.HasPermission(model.PermissionRevokeLicense))
}

func TestAuthenticate_Rejects(t *testing.T) {
	expired := userClaims("17", nil)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := userClaims("17", nil)
	noExpiry.ExpiresAt = nil

	badType := userClaims("17", nil)
	badType.TokenType = "SERVICE"

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signClaims(t, jwt.SigningMethodHS256, []byte("other"), userClaims("17", nil))},
		{"wrong algorithm", "Bearer " + signClaims(t, jwt.SigningMethodHS512, testSecret, userClaims("17", nil))},
		{"expired", "Bearer " + signClaims(t, jwt.SigningMethodHS256, testSecret, expired)},
		{"without expiry", "Bearer " + signClaims(t, jwt.SigningMethodHS256, testSecret, noExpiry)},
		{"non numeric subject", "Bearer " + signClaims(t, jwt.SigningMethodHS256, testSecret, userClaims("abc", nil))},
		{"unknown token type", "Bearer " + signClaims(t, jwt.SigningMethodHS256, testSecret, badType)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Authenticate(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/robots", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireGuards(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	robot := &model.Caller{SubjectID: 5, TokenType: model.TokenTypeRobot}
	user := &model.Caller{SubjectID: 1, TokenType: model.TokenTypeUser, Permissions: []string{model.PermissionAssignCourse}}
	admin := &model.Caller{SubjectID: 2, TokenType: model.TokenTypeUser, IsSuperadmin: true}

	tests := []struct {
		name    string
		handler http.Handler
		caller  *model.Caller
		want    int
	}{
		{"robot route with robot", RequireRobot(ok), robot, http.StatusOK},
		{"robot route with user", RequireRobot(ok), user, http.StatusForbidden},
		{"user route with robot", RequireUser(ok), robot, http.StatusForbidden},
		{"user route with user", RequireUser(ok), user, http.StatusOK},
		{"permission held", RequirePermission(model.PermissionAssignCourse)(ok), user, http.StatusOK},
		{"permission missing", RequirePermission(model.PermissionManageRobots)(ok), user, http.StatusForbidden},
		{"superadmin passes", RequirePermission(model.PermissionManageRobots)(ok), admin, http.StatusOK},
		{"no caller", RequireUser(ok), nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.caller != nil {
				req = req.WithContext(WithCaller(req.Context(), tt.caller))
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
