package exporter

import (
	"fmt"
	"strings"
)

// formatFloat renders volumes and percentages with two decimals so 13.4
// round-trips as 13.40 in every file.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// sanitizeName makes a column name safe for use in a file or sheet name.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_")
	return replacer.Replace(name)
}
