package queries

import (
	"encoding/base64"
	"strconv"
	"strings"

	"tool-rental/internal/pkg/errs"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.Mark(errs.New("invalid cursor"), errs.ErrValidation)

// EncodeAfterCursor encodes the id of the last rental on a page. Listings are
// ordered by id descending, so the id alone is a stable keyset.
func EncodeAfterCursor(id int64) string {
	return base64.URLEncoding.EncodeToString([]byte(CursorVersionV1 + ":" + strconv.FormatInt(id, 10)))
}

// DecodeAfterCursor also accepts a bare decimal id.
func DecodeAfterCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, ErrInvalidCursor
	}

	raw := cursor
	if decoded, err := base64.URLEncoding.DecodeString(cursor); err == nil {
		if s := string(decoded); strings.HasPrefix(s, CursorVersionV1+":") {
			raw = strings.TrimPrefix(s, CursorVersionV1+":")
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Wrapf(ErrInvalidCursor, "cursor %q", cursor)
	}
	return id, nil
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
