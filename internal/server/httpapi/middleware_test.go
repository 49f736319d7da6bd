package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

func TestTokenAuth_MissingHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/tasks/", "", false)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["detail"] != "Authentication credentials were not provided." {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestTokenAuth_RejectedHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"unknown key", common.AuthSchemeToken + " deadbeef"},
		{"wrong scheme", "Bearer " + testToken},
		{"no key", common.AuthSchemeToken},
		{"empty key", common.AuthSchemeToken + " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			req := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
			req.Header.Set(common.AuthHeaderName, tt.header)
			rec := httptest.NewRecorder()
			env.e.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["detail"] != "Invalid token." {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestTokenAuth_ValidTokenReachesHandler(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/tasks/", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}
