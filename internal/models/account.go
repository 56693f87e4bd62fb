package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a bank account that statement lines, receipts and expenditures
// are booked against.
type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"index" json:"name"`
	BankName      string    `json:"bankName"`
	AccountNumber string    `gorm:"uniqueIndex" json:"accountNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}
