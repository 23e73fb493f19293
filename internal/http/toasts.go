package httpx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/lingua-labs/lingua-web/internal/ports"
)

const maxFlashNotices = 5

// toastBox collects the notices raised while serving one request.
type toastBox struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (b *toastBox) add(n ports.Notice) {
	b.mu.Lock()
	b.notices = append(b.notices, n)
	b.mu.Unlock()
}

func (b *toastBox) list() []ports.Notice {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ports.Notice(nil), b.notices...)
}

type toastKey struct{}

func toastsFrom(ctx context.Context) *toastBox {
	b, _ := ctx.Value(toastKey{}).(*toastBox)
	return b
}

// Toasts attaches a notice collector to every request. Full page loads also
// pick up notices carried over from a redirect in the flash cookie.
func Toasts(cookies CookieConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			box := &toastBox{}
			if r.Method == http.MethodGet && isBrowserRequest(r) && !IsHTMX(r) {
				if notices := readFlash(r); len(notices) > 0 {
					box.notices = notices
					cookies.clear(w, r, FlashCookieName)
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), toastKey{}, box)))
		})
	}
}

// requestNotifier is the ports.Notifier for one request. htmx requests get the
// notices in Hx-Trigger; full pages render them from the collector.
type requestNotifier struct {
	w   http.ResponseWriter
	r   *http.Request
	box *toastBox
}

func notifierFor(w http.ResponseWriter, r *http.Request) ports.Notifier {
	box := toastsFrom(r.Context())
	if box == nil {
		box = &toastBox{}
	}
	return &requestNotifier{w: w, r: r, box: box}
}

func (n *requestNotifier) Notify(_ context.Context, notice ports.Notice) {
	n.box.add(notice)
	if IsHTMX(n.r) {
		SetHXTrigger(n.w, ToastEvent, n.box.list())
	}
}

// persistToasts moves pending notices into the flash cookie ahead of a redirect.
func persistToasts(w http.ResponseWriter, r *http.Request, cookies CookieConfig) {
	notices := toastsFrom(r.Context()).list()
	if len(notices) == 0 {
		return
	}
	if len(notices) > maxFlashNotices {
		notices = notices[len(notices)-maxFlashNotices:]
	}
	// The redirected page shows them from the cookie.
	w.Header().Del("Hx-Trigger")
	b, err := json.Marshal(notices)
	if err != nil {
		return
	}
	cookies.set(w, r, cookieParams{
		Name:   FlashCookieName,
		Value:  base64.RawURLEncoding.EncodeToString(b),
		MaxAge: 60,
	})
}

func readFlash(r *http.Request) []ports.Notice {
	c, err := r.Cookie(FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []ports.Notice
	if err = json.Unmarshal(b, &notices); err != nil {
		return nil
	}
	if len(notices) > maxFlashNotices {
		notices = notices[:maxFlashNotices]
	}
	return notices
}
