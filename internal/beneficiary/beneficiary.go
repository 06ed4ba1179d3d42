package beneficiary

import (
	"time"

	"github.com/google/uuid"
)

// Beneficiary is a saved recipient. Transfers copy these fields into an
// immutable snapshot at creation, so editing a beneficiary never rewrites
// transfer history.
type Beneficiary struct {
	ID            uuid.UUID
	Name          string
	AccountNumber string
	BankName      string
	Country       string
	Currency      string
	CreatedAt     time.Time
}
