package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/session"
	"github.com/clinicware/go-clinic-console/session/filestore"
	"github.com/stretchr/testify/require"
)

func TestGetWithoutSession(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	sess, err := store.Get()
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestSetGetRoundTrip(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(&session.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Username:     "jane",
	}))

	sess, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "access-1", sess.AccessToken)
	require.Equal(t, "refresh-1", sess.RefreshToken)
	require.Equal(t, "jane", sess.Username)
}

func TestUpdateAccessTokenKeepsRefreshAndUsername(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(&session.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Username:     "jane",
	}))
	require.NoError(t, store.UpdateAccessToken("access-2"))

	sess, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "access-2", sess.AccessToken)
	require.Equal(t, "refresh-1", sess.RefreshToken)
	require.Equal(t, "jane", sess.Username)
}

func TestUpdateAccessTokenWithoutSession(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	err = store.UpdateAccessToken("access-2")
	require.ErrorIs(t, err, errors.ErrNoSession)
}

func TestClearDestroysSession(t *testing.T) {
	dir := t.TempDir()
	store, err := filestore.New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(&session.Session{AccessToken: "a", RefreshToken: "r", Username: "u"}))
	require.NoError(t, store.Clear())

	sess, err := store.Get()
	require.NoError(t, err)
	require.Nil(t, sess)

	_, err = os.Stat(filepath.Join(dir, "session.json"))
	require.True(t, os.IsNotExist(err))
}

func TestClearWithoutSessionIsNoOp(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Clear())
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := filestore.New(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(&session.Session{AccessToken: "a", RefreshToken: "r", Username: "u"}))

	reopened, err := filestore.New(dir)
	require.NoError(t, err)
	sess, err := reopened.Get()
	require.NoError(t, err)
	require.Equal(t, "u", sess.Username)
}
