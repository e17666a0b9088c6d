package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-rental/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uint64, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newProtectedServer(cap model.Capability) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWTAuth(testSecret), RequireCapability(cap))
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	return e
}

func TestRequireCapabilityPerRole(t *testing.T) {
	cases := []struct {
		name string
		cap  model.Capability
		role string
		want int
	}{
		{"tenant can book", model.CapViewOwnBookings, "tenant", http.StatusOK},
		{"landlord cannot book", model.CapViewOwnBookings, "landlord", http.StatusForbidden},
		{"landlord manages properties", model.CapManageOwnProperties, "landlord", http.StatusOK},
		{"tenant cannot manage properties", model.CapManageOwnProperties, "tenant", http.StatusForbidden},
		{"admin passes every gate", model.CapModerateAll, "admin", http.StatusOK},
		{"admin can book too", model.CapViewOwnBookings, "admin", http.StatusOK},
		{"tenant cannot moderate", model.CapModerateAll, "tenant", http.StatusForbidden},
		{"unknown role rejected", model.CapViewOwnBookings, "superuser", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newProtectedServer(tc.cap)
			req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, 7, tc.role))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("role %q with cap %v: got status %d, want %d", tc.role, tc.cap, rec.Code, tc.want)
			}
		})
	}
}

func TestRequireCapabilityWithoutToken(t *testing.T) {
	e := newProtectedServer(model.CapViewOwnBookings)
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireCapabilityBadSignature(t *testing.T) {
	e := newProtectedServer(model.CapViewOwnBookings)
	claims := jwt.MapClaims{"sub": 7, "role": "tenant", "exp": time.Now().Add(time.Hour).Unix()}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+s)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
