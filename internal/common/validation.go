package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat rejects formats outside the configured set. An empty
// set means no restriction.
func ValidateOutputFormat(format string, supported []string) error {
	if len(supported) == 0 || slices.Contains(supported, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format %q (supported: %s)",
		format, strings.Join(supported, ", "))
}
