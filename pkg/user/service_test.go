package user

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amiskov/spendahead/pkg/session"
)

func newTestService() (*service, *session.Manager) {
	sm := session.NewManager(session.PlainCodec{}, session.NewMemoryRepo(0), session.ManagerConfig{TTL: time.Hour})
	return NewService(NewMemoryRepo(), sm), sm
}

func TestRegUser_IssuesSession(t *testing.T) {
	s, _ := newTestService()

	issued, err := s.RegUser(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, issued.User.ID)
	require.Equal(t, "alice", issued.User.Login)

	sess, ok := session.NewValidator(session.PlainCodec{}).Validate(issued.Value, true).Session()
	require.True(t, ok)

	var payload Public
	require.NoError(t, json.Unmarshal(sess.User, &payload))
	require.Equal(t, issued.User, payload)
}

func TestRegUser_Duplicate(t *testing.T) {
	s, _ := newTestService()
	_, err := s.RegUser(context.Background(), "alice", "one")
	require.NoError(t, err)

	_, err = s.RegUser(context.Background(), " alice ", "two")
	require.ErrorIs(t, err, errUserAlreadyExists)
}

func TestRegUser_EmptyInput(t *testing.T) {
	s, _ := newTestService()
	_, err := s.RegUser(context.Background(), "  ", "pass")
	require.ErrorIs(t, err, errBadInput)
	_, err = s.RegUser(context.Background(), "bob", "")
	require.ErrorIs(t, err, errBadInput)
}

func TestLoginUser(t *testing.T) {
	s, _ := newTestService()
	_, err := s.RegUser(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	issued, err := s.LoginUser(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "alice", issued.User.Login)

	_, err = s.LoginUser(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, errInvalidCredentials)

	_, err = s.LoginUser(context.Background(), "nobody", "s3cret")
	require.ErrorIs(t, err, errInvalidCredentials)
}

func TestLogOutUser_RevokesSession(t *testing.T) {
	s, sm := newTestService()
	issued, err := s.RegUser(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	rec, err := sm.Check(context.Background(), issued.Session)
	require.NoError(t, err)

	ctx := session.ContextWithSession(context.Background(), rec)
	require.NoError(t, s.LogOutUser(ctx))

	_, err = sm.Check(context.Background(), issued.Session)
	require.ErrorIs(t, err, session.ErrNoAuth)
}

func TestLogOutUser_WithoutSession(t *testing.T) {
	s, _ := newTestService()
	require.ErrorIs(t, s.LogOutUser(context.Background()), session.ErrNoAuth)
}

func TestCurrentUser(t *testing.T) {
	s, _ := newTestService()
	issued, err := s.RegUser(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	ctx := session.ContextWithSession(context.Background(), &session.Record{Token: "t", UserID: issued.User.ID})
	pub, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, issued.User, *pub)
}
