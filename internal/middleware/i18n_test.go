package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func negotiatedLocale(t *testing.T, configure func(*http.Request)) string {
	t.Helper()
	var got string
	handler := I18N("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	configure(req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestI18NNegotiation(t *testing.T) {
	cases := []struct {
		name      string
		configure func(*http.Request)
		want      string
	}{
		{"default", func(r *http.Request) {}, "en"},
		{"accept language indonesian", func(r *http.Request) {
			r.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")
		}, "id"},
		{"accept language english wins", func(r *http.Request) {
			r.Header.Set("Accept-Language", "en-US,en;q=0.9,id;q=0.5")
		}, "en"},
		{"unsupported falls back", func(r *http.Request) {
			r.Header.Set("Accept-Language", "fr-FR")
		}, "en"},
		{"x-locale override", func(r *http.Request) {
			r.Header.Set("Accept-Language", "en-US")
			r.Header.Set("X-Locale", "id")
		}, "id"},
		{"x-locale region variant", func(r *http.Request) {
			r.Header.Set("X-Locale", "id-ID")
		}, "id"},
		{"x-locale unknown maps to english", func(r *http.Request) {
			r.Header.Set("X-Locale", "de")
		}, "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := negotiatedLocale(t, tc.configure); got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LocaleFromContext(req.Context()); got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}
