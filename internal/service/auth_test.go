package service

import (
	"testing"
	"time"

	"xpense/internal/models"
	"xpense/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ThenLogin(t *testing.T) {
	db := newTestDB(t)
	auth := newAuth(db)

	ok, err := auth.Register("alice", "S3cret!", models.RoleAdmin)
	require.NoError(t, err)
	require.True(t, ok)

	ok, role, err := auth.Login("alice", "S3cret!")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "alice").Error)
	assert.NotEqual(t, "S3cret!", user.PasswordHash)
	assert.Equal(t, models.DefaultEmergencyRate, user.EmergencyRate)
}

func TestRegister_DefaultRole(t *testing.T) {
	db := newTestDB(t)
	auth := newAuth(db)

	_, err := auth.Register("bob", "pw", "")
	require.NoError(t, err)

	_, role, err := auth.Login("bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestRegister_DuplicateLeavesExistingUntouched(t *testing.T) {
	db := newTestDB(t)
	auth := newAuth(db)

	ok, err := auth.Register("carol", "first", "")
	require.NoError(t, err)
	require.True(t, ok)

	var before models.User
	require.NoError(t, db.First(&before, "username = ?", "carol").Error)

	ok, err = auth.Register("carol", "second", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	var after models.User
	require.NoError(t, db.First(&after, "username = ?", "carol").Error)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, before.Role, after.Role)

	ok, _, _ = auth.Login("carol", "second")
	assert.False(t, ok)
}

func TestRegister_Invalid(t *testing.T) {
	auth := newAuth(newTestDB(t))

	_, err := auth.Register("  ", "pw", "")
	assert.True(t, IsValidation(err))

	_, err = auth.Register("dave", "", "")
	assert.True(t, IsValidation(err))

	_, err = auth.Register("dave", "pw", "root")
	assert.True(t, IsValidation(err))
}

func TestLogin_UniformFailure(t *testing.T) {
	auth := newAuth(newTestDB(t))
	_, err := auth.Register("erin", "right", "")
	require.NoError(t, err)

	okWrong, roleWrong, errWrong := auth.Login("erin", "wrong")
	okMissing, roleMissing, errMissing := auth.Login("nobody", "right")

	assert.NoError(t, errWrong)
	assert.NoError(t, errMissing)
	assert.False(t, okWrong)
	assert.False(t, okMissing)
	assert.Equal(t, roleWrong, roleMissing)
	assert.Empty(t, roleWrong)
}

func TestSession_Lifecycle(t *testing.T) {
	auth := newAuth(newTestDB(t))

	sess, err := auth.StartSession("frank", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, string(session.Home), sess.Page)

	loaded, err := auth.Session(sess.ID)
	require.NoError(t, err)
	require.NoError(t, auth.Navigate(loaded, session.Dashboard))

	loaded, err = auth.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.Dashboard), loaded.Page)

	err = auth.Navigate(loaded, session.LoggedOut)
	assert.True(t, IsValidation(err))

	require.NoError(t, auth.EndSession(sess.ID))
	_, err = auth.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSession_Expired(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db, 4, time.Millisecond)

	sess, err := auth.StartSession("gina", models.RoleUser)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = auth.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = auth.Session("missing")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
