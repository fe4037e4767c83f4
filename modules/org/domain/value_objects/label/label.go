package label

import (
	"errors"
	"strings"
)

// Label classifies an Area or Tribe by its alignment.
type Label string

const (
	CFUAligned    Label = "cfu_aligned"
	PlatformGroup Label = "platform_group"
	Digital       Label = "digital"
	Unset         Label = "unset"
)

var ErrUnknownLabel = errors.New("unknown classification label")

// Parse normalizes case-insensitive input to the canonical spelling.
// Empty input maps to Unset.
func Parse(v string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "cfu_aligned":
		return CFUAligned, nil
	case "platform_group":
		return PlatformGroup, nil
	case "digital":
		return Digital, nil
	case "unset", "":
		return Unset, nil
	default:
		return "", ErrUnknownLabel
	}
}

func (l Label) String() string { return string(l) }
