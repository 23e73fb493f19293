package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

func TestFailingTokenStore(t *testing.T) {
	ctx := context.Background()
	s := NewFailingTokenStore()

	_, err := s.Get(ctx, "sid")
	require.ErrorIs(t, err, ports.ErrNoToken)

	pair := domainauth.TokenPair{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, s.Save(ctx, "sid", pair))
	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	s.FailGet = true
	_, err = s.Get(ctx, "sid")
	require.ErrorIs(t, err, ErrStoreDown)

	s.FailSave = true
	require.ErrorIs(t, s.Save(ctx, "sid", pair), ErrStoreDown)

	s.FailGet = false
	require.NoError(t, s.Delete(ctx, "sid"))
	_, err = s.Get(ctx, "sid")
	require.ErrorIs(t, err, ports.ErrNoToken)
}

func TestRecordingNotifier(t *testing.T) {
	n := &RecordingNotifier{}
	_, ok := n.Last()
	assert.False(t, ok)

	n.Notify(context.Background(), ports.Notice{Title: "one"})
	n.Notify(context.Background(), ports.Notice{Title: "two"})

	last, ok := n.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Title)

	notices := n.Notices()
	require.Len(t, notices, 2)
	notices[0].Title = "changed"
	assert.Equal(t, "one", n.Notices()[0].Title)
}

func TestStaticProfileFetcher(t *testing.T) {
	ctx := context.Background()
	f := &StaticProfileFetcher{Users: map[string]domainauth.User{"tok": {ID: "u1"}}}

	u, err := f.FetchProfile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = f.FetchProfile(ctx, "other")
	require.Error(t, err)

	f.Err = ErrStoreDown
	_, err = f.FetchProfile(ctx, "tok")
	require.ErrorIs(t, err, ErrStoreDown)
	assert.Equal(t, 3, f.Calls())
}
