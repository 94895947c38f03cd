package models

import "time"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	// DateLayout is how entry dates are stored: ISO-8601 calendar date.
	DateLayout = "2006-01-02"
)

// Entry is one income or expense record.
// Amounts are whole Rupiah, the smallest unit used by the app.
type Entry struct {
	ID            uint   `gorm:"primaryKey"`
	Username      string `gorm:"size:64;index;not null"`
	Date          string `gorm:"size:10;index;not null"`
	Category      string `gorm:"size:32;not null"`
	Type          string `gorm:"size:16;not null"`
	Amount        int64  `gorm:"not null"`
	EmergencyFund int64  `gorm:"not null;default:0"` // snapshot of amount*rate/100 at write time
	Note          string `gorm:"type:text"`
	ReceiptImage  []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Entry) TableName() string {
	return "financial_entries"
}

// Day parses the stored date. Rows written by the app always parse.
func (e *Entry) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}
