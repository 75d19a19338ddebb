package models

import (
	"encoding/json"
	"time"
)

// TrackingBatch is the set of tracking numbers issued for one verified
// payment. Reference carries a unique index: issuance is keyed by the gateway
// reference, so re-verifying an already-confirmed payment returns the stored
// batch instead of minting a new one.
type TrackingBatch struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Reference     string    `gorm:"uniqueIndex" json:"reference"`
	AmountKobo    int64     `json:"amount_kobo"`
	CustomerEmail string    `json:"customer_email"`
	NumbersJSON   string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (b *TrackingBatch) Numbers() ([]string, error) {
	var numbers []string
	if err := json.Unmarshal([]byte(b.NumbersJSON), &numbers); err != nil {
		return nil, err
	}
	return numbers, nil
}

func (b *TrackingBatch) SetNumbers(numbers []string) error {
	encoded, err := json.Marshal(numbers)
	if err != nil {
		return err
	}
	b.NumbersJSON = string(encoded)
	return nil
}

// VerificationRecord is the queryable mirror of the append-only JSONL audit
// trail: one row per terminal outcome of a verification that reached the
// gateway.
type VerificationRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Reference     string    `gorm:"index" json:"reference"`
	AmountKobo    int64     `json:"amount_kobo"`
	Currency      string    `json:"currency"`
	GatewayStatus string    `json:"gateway_status"`
	Outcome       string    `json:"outcome"`
	CustomerEmail string    `json:"customer_email"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
