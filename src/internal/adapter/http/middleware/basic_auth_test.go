package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func basicAuthHeader(id, key string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+key))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuth_AllowsValidCredentials(t *testing.T) {
	mw := BasicAuth("SavingsApp", "SavingsKey001", "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicAuthHeader("SavingsApp", "SavingsKey001"))

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestBasicAuth_RejectsInvalidCredentials(t *testing.T) {
	mw := BasicAuth("SavingsApp", "SavingsKey001", "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicAuthHeader("SavingsApp", "WrongKey"))

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestBasicAuth_RejectsMissingCredentials(t *testing.T) {
	mw := BasicAuth("SavingsApp", "SavingsKey001", "")

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestBasicAuth_UsesHashWhenConfigured(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("HashedKey"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	mw := BasicAuth("SavingsApp", "SavingsKey001", string(hash))

	cases := []struct {
		key  string
		want int
	}{
		{key: "HashedKey", want: http.StatusOK},
		{key: "SavingsKey001", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", basicAuthHeader("SavingsApp", tc.key))

		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)

		if rr.Code != tc.want {
			t.Fatalf("key %q: expected status %d, got %d", tc.key, tc.want, rr.Code)
		}
	}
}

func TestBasicAuth_MissingConfiguration(t *testing.T) {
	mw := BasicAuth("", "", "")

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}
