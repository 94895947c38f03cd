package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xpense/internal/models"
	"xpense/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBackupNotFound = errors.New("backup not found")

// BackupService writes encrypted snapshots of a user's entries to disk and
// restores them.
type BackupService struct {
	DB  *gorm.DB
	Key string
	Dir string
}

func NewBackupService(db *gorm.DB, key, dir string) *BackupService {
	return &BackupService{DB: db, Key: key, Dir: dir}
}

// backupData is the plaintext layout of a backup file.
type backupData struct {
	Username string         `json:"username"`
	Created  time.Time      `json:"created"`
	Entries  []models.Entry `json:"entries"`
}

// Create snapshots every entry of username.
func (s *BackupService) Create(username string) (*models.Backup, error) {
	var entries []models.Entry
	if err := s.DB.Where("username = ?", username).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	raw, err := json.Marshal(&backupData{
		Username: username,
		Created:  time.Now(),
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	enc, err := util.EncryptAES(s.Key, raw)
	if err != nil {
		return nil, fmt.Errorf("encrypt backup: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	fileName := fmt.Sprintf("backup-%s.bin", uuid.NewString())
	filePath := filepath.Join(s.Dir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	backup := models.Backup{
		Username: username,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := s.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("save backup record: %w", err)
	}
	return &backup, nil
}

// List returns the backups of username, newest first.
func (s *BackupService) List(username string) ([]models.Backup, error) {
	var list []models.Backup
	if err := s.DB.Where("username = ?", username).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

// Get loads one backup record owned by username.
func (s *BackupService) Get(id uint, username string) (*models.Backup, error) {
	var b models.Backup
	err := s.DB.Where("id = ? AND username = ?", id, username).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup backup: %w", err)
	}
	return &b, nil
}

// Delete removes the file first, then the record.
func (s *BackupService) Delete(id uint, username string) error {
	b, err := s.Get(id, username)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove backup file: %w", err)
	}
	if err := s.DB.Delete(b).Error; err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}

// Restore replaces all entries of username with the ones in the backup, in
// one transaction. It returns how many entries were restored.
func (s *BackupService) Restore(id uint, username string) (int, error) {
	b, err := s.Get(id, username)
	if err != nil {
		return 0, err
	}

	enc, err := os.ReadFile(b.FilePath)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}
	raw, err := util.DecryptAES(s.Key, enc)
	if err != nil {
		return 0, fmt.Errorf("decrypt backup: %w", err)
	}
	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("decode backup: %w", err)
	}
	if data.Username != "" && data.Username != username {
		return 0, invalid("backup", "backup belongs to another user")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.Entry{}).Error; err != nil {
			return err
		}
		for i := range data.Entries {
			e := data.Entries[i]
			e.ID = 0 // let the database assign new keys
			e.Username = username
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("restore entries: %w", err)
	}
	return len(data.Entries), nil
}
