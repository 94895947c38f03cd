package service

import (
	"path/filepath"
	"testing"
	"time"

	"xpense/internal/config"
	"xpense/internal/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	gifBytes = []byte("GIF89a\x01\x00\x01\x00")
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "service.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newAuth(db *gorm.DB) *AuthService {
	return NewAuthService(db, bcrypt.MinCost, time.Hour)
}

func registerUser(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	ok, err := newAuth(db).Register(username, "Password123", "")
	require.NoError(t, err)
	require.True(t, ok)
}
