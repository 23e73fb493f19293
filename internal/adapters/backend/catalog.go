package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lingua-labs/lingua-web/internal/domain/model"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
)

// ListCategories returns every vocabulary category.
func (c *Client) ListCategories(ctx context.Context, token string) ([]model.Category, error) {
	var out []model.Category
	if err := c.do(ctx, call{op: "list categories", method: http.MethodGet, path: "/categories", token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTopics returns the topics of one category.
func (c *Client) ListTopics(ctx context.Context, token, categoryID string) ([]model.Topic, error) {
	if categoryID == "" {
		return nil, apperrors.ValidationField("categoryId", "category id is required")
	}
	var out []model.Topic
	err := c.do(ctx, call{
		op:     "list topics",
		method: http.MethodGet,
		path:   "/categories/" + url.PathEscape(categoryID) + "/topics",
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func listQuery(opts model.ListOptions) url.Values {
	opts = opts.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	return q
}

// listPage fetches one page of T.
func listPage[T any](ctx context.Context, c *Client, cl call, opts model.ListOptions) (model.Page[T], error) {
	cl.method = http.MethodGet
	cl.query = listQuery(opts)
	var page model.Page[T]
	if err := c.do(ctx, cl, &page); err != nil {
		return model.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	n := opts.Normalize()
	if page.Page == 0 {
		page.Page = n.Page
	}
	if page.Limit == 0 {
		page.Limit = n.Limit
	}
	return page, nil
}
