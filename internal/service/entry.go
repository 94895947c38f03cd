package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"xpense/internal/models"
	"xpense/internal/util"

	"gorm.io/gorm"
)

const maxNoteLen = 1000

// EntryInput is what the entry form submits. Amount is the raw text typed by
// the user; Receipt is an optional PNG/JPEG.
type EntryInput struct {
	Date     string
	Type     string
	Category string
	Amount   string
	Note     string
	Receipt  []byte
}

type validEntry struct {
	date     string
	typ      string
	category string
	amount   int64
	note     string
}

// EntryService manages the financial entries of a user.
type EntryService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{DB: db, Now: time.Now}
}

func (s *EntryService) validate(in EntryInput) (validEntry, error) {
	var v validEntry

	v.typ = strings.ToLower(strings.TrimSpace(in.Type))
	if v.typ == "" || v.typ == strings.ToLower(models.CategoryPlaceholder) {
		return v, invalid("type", "please select a transaction type")
	}
	if v.typ != models.TypeIncome && v.typ != models.TypeExpense {
		return v, invalid("type", "unknown type %q", in.Type)
	}

	v.category = strings.TrimSpace(in.Category)
	if v.category == "" || v.category == models.CategoryPlaceholder {
		return v, invalid("category", "please select a category")
	}
	if !models.IsValidCategory(v.typ, v.category) {
		return v, invalid("category", "%q is not a %s category", v.category, v.typ)
	}

	amount, err := util.ParseAmount(in.Amount)
	if err != nil {
		return v, invalid("amount", "%v", err)
	}
	v.amount = amount

	v.date = strings.TrimSpace(in.Date)
	if v.date == "" {
		v.date = s.Now().Format(models.DateLayout)
	}
	if err := util.ValidateDate(v.date); err != nil {
		return v, invalid("date", "%v", err)
	}

	v.note = strings.TrimSpace(in.Note)
	if len(v.note) > maxNoteLen {
		return v, invalid("note", "note is longer than %d characters", maxNoteLen)
	}

	if len(in.Receipt) > 0 {
		if err := util.ValidateImage(in.Receipt); err != nil {
			return v, invalid("receipt", "%v", err)
		}
	}
	return v, nil
}

func (s *EntryService) currentRate(username string) (int, error) {
	var user models.User
	err := s.DB.Select("username", "emergency_rate").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	return user.EmergencyRate, nil
}

func emergencyFor(typ string, amount int64, rate int) int64 {
	if typ != models.TypeIncome {
		return 0
	}
	return util.EmergencyFund(amount, rate)
}

// Create validates and stores a new entry, snapshotting the user's current
// emergency rate into the emergency fund column.
func (s *EntryService) Create(username string, in EntryInput) (uint, error) {
	v, err := s.validate(in)
	if err != nil {
		return 0, err
	}
	rate, err := s.currentRate(username)
	if err != nil {
		return 0, err
	}

	entry := models.Entry{
		Username:      username,
		Date:          v.date,
		Category:      v.category,
		Type:          v.typ,
		Amount:        v.amount,
		EmergencyFund: emergencyFor(v.typ, v.amount, rate),
		Note:          v.note,
		ReceiptImage:  in.Receipt,
	}
	if len(entry.ReceiptImage) == 0 {
		entry.ReceiptImage = nil
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}
	return entry.ID, nil
}

// Update rewrites an entry owned by username. The emergency fund is
// recomputed with the rate in effect now, not the one used at creation.
func (s *EntryService) Update(id uint, username string, in EntryInput) error {
	v, err := s.validate(in)
	if err != nil {
		return err
	}

	entry, err := s.Get(id, username)
	if err != nil {
		return err
	}
	rate, err := s.currentRate(username)
	if err != nil {
		return err
	}

	entry.Date = v.date
	entry.Category = v.category
	entry.Type = v.typ
	entry.Amount = v.amount
	entry.EmergencyFund = emergencyFor(v.typ, v.amount, rate)
	entry.Note = v.note
	if len(in.Receipt) > 0 {
		entry.ReceiptImage = in.Receipt
	}

	if err := s.DB.Save(entry).Error; err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// Delete removes an entry owned by username. Ids of other users are left
// alone and reported as not found.
func (s *EntryService) Delete(id uint, username string) error {
	res := s.DB.Where("id = ? AND username = ?", id, username).Delete(&models.Entry{})
	if res.Error != nil {
		return fmt.Errorf("delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Get loads one entry owned by username.
func (s *EntryService) Get(id uint, username string) (*models.Entry, error) {
	var entry models.Entry
	err := s.DB.Where("id = ? AND username = ?", id, username).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup entry: %w", err)
	}
	return &entry, nil
}

// List returns all entries of username, newest first.
func (s *EntryService) List(username string) ([]models.Entry, error) {
	var entries []models.Entry
	if err := s.DB.Where("username = ?", username).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Count returns how many entries username owns.
func (s *EntryService) Count(username string) (int64, error) {
	var n int64
	if err := s.DB.Model(&models.Entry{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
