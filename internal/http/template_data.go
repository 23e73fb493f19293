package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/model"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// PageMeta identifies the page being rendered.
type PageMeta struct {
	Title string
	Page  string
}

// PageData is the root value handed to every template.
type PageData struct {
	Title      string
	Page       string
	Path       string
	Auth       domainauth.State
	User       *domainauth.User
	IsAdmin    bool
	CSRFToken  string
	Toasts     []ports.Notice
	ReplaceURL string
	// Guarded pages run the client-side guard runner.
	Guarded bool

	Error       string
	FieldErrors map[string]string
	Form        url.Values
	Pagination  *PaginationData
	Data        any
}

// PaginationData contains pagination information for list views.
type PaginationData struct {
	Page    int
	Limit   int
	Total   int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

func newPageData(r *http.Request, meta PageMeta, st domainauth.State) PageData {
	st = st.Normalize()
	d := PageData{
		Title:      meta.Title,
		Page:       meta.Page,
		Path:       r.URL.Path,
		Auth:       st,
		User:       st.User,
		CSRFToken:  GetCSRFToken(r),
		Toasts:     toastsFrom(r.Context()).list(),
		ReplaceURL: CleanURLFromContext(r.Context()),
		Guarded:    routes.IsPrivate(r.URL.Path) || strings.HasPrefix(r.URL.Path, adminPrefix),
	}
	if st.User != nil {
		d.IsAdmin = st.User.IsAdmin()
	}
	return d
}

func paginationFor[T any](r *http.Request, p model.Page[T]) *PaginationData {
	pd := &PaginationData{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   p.Total,
		HasPrev: p.Page > 1,
		HasNext: p.HasNext(),
	}
	if pd.HasPrev {
		pd.PrevURL = pageURL(r, p.Page-1)
	}
	if pd.HasNext {
		pd.NextURL = pageURL(r, p.Page+1)
	}
	return pd
}

func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	return r.URL.Path + "?" + q.Encode()
}

// listOptionsFrom reads page, limit, q and status from the query string.
func listOptionsFrom(r *http.Request) model.ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("q"),
		Status: q.Get("status"),
	}.Normalize()
}
