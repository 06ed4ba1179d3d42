package view

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/avelines/remit/internal/transfer"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored in minor units.
func FormatAmount(minor int64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", float64(minor)/100.0)
	}

	return fmt.Sprintf("%.2f %s", float64(minor)/100.0, currency)
}

// ParseAmount converts a decimal form input into minor units. Rounding, not
// truncation: "19.99" is 1998.999... in float64 and must come out as 1999.
func ParseAmount(s string) (int64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}

	if value <= 0 {
		return 0, fmt.Errorf("must be positive")
	}

	return int64(math.Round(value * 100)), nil
}

// FormatClock formats a timestamp for the progress timeline.
func FormatClock(t time.Time) string {
	return t.Local().Format("15:04:05")
}

// StatusLabel maps a lifecycle status to its display label.
func StatusLabel(s transfer.Status) string {
	switch s {
	case transfer.StatusSubmitted:
		return "Submitted"
	case transfer.StatusConverting:
		return "Converting currency"
	case transfer.StatusFlaggedAwaitingClearance:
		return "Compliance review"
	case transfer.StatusClearanceGranted:
		return "Clearance granted"
	case transfer.StatusInTransit:
		return "In transit"
	case transfer.StatusFundsArrived:
		return "Funds arrived"
	case transfer.StatusPendingDeposit:
		return "Pending deposit"
	case transfer.StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
