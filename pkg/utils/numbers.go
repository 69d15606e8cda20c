package utils

import (
	"context"
	"fmt"
	"time"
)

// Record number prefixes. Numbers look like TK20260829143055, with a
// three-digit counter appended only when the base value is taken.
const (
	TicketNumberPrefix        = "TK"
	ReservationNumberPrefix   = "RSV"
	IncidentNumberPrefix      = "SEC"
	VulnerabilityNumberPrefix = "VUL"
	BackupJobNumberPrefix     = "BK"
)

// NumberExistsFunc reports whether a candidate record number is already in use.
type NumberExistsFunc func(ctx context.Context, number string) (bool, error)

// GenerateRecordNumber builds prefix + UTC timestamp and resolves collisions
// by appending a counter suffix (001-999). Two records created in the same
// second therefore get distinct numbers without retrying the insert.
func GenerateRecordNumber(ctx context.Context, prefix string, exists NumberExistsFunc) (string, error) {
	return generateRecordNumberAt(ctx, prefix, time.Now().UTC(), exists)
}

func generateRecordNumberAt(ctx context.Context, prefix string, now time.Time, exists NumberExistsFunc) (string, error) {
	base := prefix + now.Format("20060102150405")

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= 999; i++ {
		candidate := fmt.Sprintf("%s%03d", base, i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("exhausted record number suffixes for %s", base)
}
