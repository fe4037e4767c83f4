package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iota-uz/org-portal/pkg/serrors"
)

func validationError(code string, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}
	err := serrors.Validation(code, strings.Join(parts, "; "))
	if len(names) == 1 {
		err = err.WithField(names[0])
	}
	return err
}
