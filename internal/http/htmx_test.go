package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWantsPartial(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/learn", nil)
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "true")
	assert.True(t, WantsPartial(r))

	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.False(t, WantsPartial(r))
}

func TestSetHXTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXTrigger(rec, "toast", []string{"hi"})
	assert.JSONEq(t, `{"toast":["hi"]}`, rec.Header().Get("Hx-Trigger"))

	rec = httptest.NewRecorder()
	SetHXTrigger(rec, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rec.Header().Get("Hx-Trigger"))
}

func TestRedirect(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		htmx     bool
		status   int
		location string
		hx       string
	}{
		{"get", http.MethodGet, false, http.StatusFound, "/vocabulary", ""},
		{"post", http.MethodPost, false, http.StatusSeeOther, "/vocabulary", ""},
		{"htmx", http.MethodGet, true, http.StatusNoContent, "", "/vocabulary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/get-started", nil)
			if tt.htmx {
				r.Header.Set("Hx-Request", "true")
			}
			rec := httptest.NewRecorder()
			redirect(rec, r, "/vocabulary")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			assert.Equal(t, tt.hx, rec.Header().Get("Hx-Redirect"))
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/learn?x=1", safeRedirectPath("/learn?x=1"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example"))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example"))
	assert.Equal(t, "/", safeRedirectPath(`/\evil`))
	assert.Equal(t, "/", safeRedirectPath(""))
}
