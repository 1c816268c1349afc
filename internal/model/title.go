package model

import (
	"fmt"
	"strconv"
)

// TitleID is the numeric Steam AppID that identifies a downloadable
// game or content item. Every file the engine manages derives its
// name from this value.
type TitleID uint32

// String returns the decimal representation of the identifier.
func (t TitleID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// ParseTitleID parses a decimal AppID string. Zero and non-numeric
// values are rejected.
func ParseTitleID(s string) (TitleID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid AppID %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid AppID %q: must be positive", s)
	}
	return TitleID(v), nil
}

// PlaceholderName returns the display name used for a title whose real
// name has not been resolved from the catalog yet.
func (t TitleID) PlaceholderName() string {
	return fmt.Sprintf("AppID: %d", uint32(t))
}
