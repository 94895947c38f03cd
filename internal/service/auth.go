package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"xpense/internal/models"
	"xpense/internal/session"
	"xpense/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService registers users, checks credentials and keeps login sessions.
type AuthService struct {
	DB         *gorm.DB
	BcryptCost int
	SessionTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *gorm.DB, bcryptCost int, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		DB:         db,
		BcryptCost: bcryptCost,
		SessionTTL: ttl,
	}
}

// Register creates a user. It returns false (and no error) when the username
// is already taken; the existing row is left untouched.
func (s *AuthService) Register(username, password, role string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, invalid("username", "username is required")
	}
	if password == "" {
		return false, invalid("password", "password is required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return false, invalid("role", "unknown role %q", role)
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := util.HashPassword(password, s.BcryptCost)
	if err != nil {
		return false, err
	}

	user := models.User{
		Username:      username,
		PasswordHash:  hash,
		Role:          role,
		EmergencyRate: models.DefaultEmergencyRate,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// Login verifies credentials. Unknown users and wrong passwords fail the same
// way; a throwaway hash comparison keeps the timing similar too.
func (s *AuthService) Login(username, password string) (bool, string, error) {
	username = strings.TrimSpace(username)

	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CheckPassword(password, s.dummy())
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("lookup user: %w", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return false, "", nil
	}
	return true, user.Role, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = util.HashPassword(uuid.NewString(), s.BcryptCost)
	})
	return s.dummyHash
}

// StartSession opens a session on the home page after a successful login.
func (s *AuthService) StartSession(username, role string) (*models.Session, error) {
	page, err := session.Transition(session.Initial, session.ActionLogin, "")
	if err != nil {
		return nil, err
	}
	sess := models.Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		Page:      string(page),
		ExpiresAt: time.Now().Add(s.SessionTTL),
	}
	if err := s.DB.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Session loads a live session.
func (s *AuthService) Session(id string) (*models.Session, error) {
	var sess models.Session
	err := s.DB.Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionInvalid
	}
	return &sess, nil
}

// Navigate moves a session to another page.
func (s *AuthService) Navigate(sess *models.Session, target session.Page) error {
	next, err := session.Transition(session.Page(sess.Page), session.ActionNavigate, target)
	if err != nil {
		return invalid("page", "%v", err)
	}
	if next == session.Page(sess.Page) {
		return nil
	}
	if err := s.DB.Model(sess).Update("page", string(next)).Error; err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	sess.Page = string(next)
	return nil
}

// EndSession logs out: the session is revoked and its state dropped.
func (s *AuthService) EndSession(id string) error {
	next, _ := session.Transition("", session.ActionLogout, "")
	err := s.DB.Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"revoked": true, "page": string(next)}).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
