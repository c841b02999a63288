package models

import (
	"fmt"
	"time"
)

const OrderNumberPrefix = "AGF"

// FormatOrderNumber renders AGF-<year>-<6-digit sequence>.
func FormatOrderNumber(createdAt time.Time, sequence int64) string {
	return fmt.Sprintf("%s-%d-%06d", OrderNumberPrefix, createdAt.Year(), sequence)
}
