// Package projection shapes catalog rows into the response records the
// transport layer serialises.  Nullable columns become JSON null, list
// fields are never null, currency is rendered with two decimals and
// timestamps use RFC 3339 in UTC.
package projection

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the canonical timestamp format of every response.
const TimeLayout = time.RFC3339

// Currency renders a decimal column value with exactly two fractional
// digits.  Values the driver hands back as "4.99", "4.990" or "2" all
// normalise; unparsable input is returned trimmed as-is.
func Currency(raw string) string {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.StringFixed(2)
}

// Timestamp renders t in the canonical layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullTimestamp renders a nullable timestamp, nil when unset.
func NullTimestamp(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := Timestamp(t.Time)
	return &s
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
