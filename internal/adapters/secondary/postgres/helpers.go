package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// textOrEmpty converts a nullable text column to a plain string.
func textOrEmpty(text pgtype.Text) string {
	if text.Valid {
		return text.String
	}
	return ""
}

// textOrNull converts a string to a text value that is NULL when empty.
func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// timeOrNil converts a nullable timestamp column to a *time.Time.
func timeOrNil(ts pgtype.Timestamptz) *time.Time {
	if ts.Valid {
		t := ts.Time
		return &t
	}
	return nil
}

// timestampOrNull converts a *time.Time to a timestamp value that is NULL
// when the pointer is nil.
func timestampOrNull(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// int8OrNil converts a nullable bigint column to a *int64.
func int8OrNil(v pgtype.Int8) *int64 {
	if v.Valid {
		value := v.Int64
		return &value
	}
	return nil
}

// int8OrNull converts a *int64 to a bigint value that is NULL when the
// pointer is nil.
func int8OrNull(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}
