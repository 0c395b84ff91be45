package utils

import "strings"

// NormalizeSize normalizes a garment size label used as a calibration key
func NormalizeSize(size string) string {
	sizeUpper := strings.ToUpper(strings.TrimSpace(size))

	// Normalize size aliases
	switch sizeUpper {
	case "SMALL":
		return "S"
	case "MEDIUM":
		return "M"
	case "LARGE":
		return "L"
	case "XLARGE", "X-LARGE":
		return "XL"
	case "XXL", "2X", "2XLARGE":
		return "2XL"
	case "XXXL", "3X":
		return "3XL"
	}

	return sizeUpper
}

// NormalizeView normalizes a product view name ("Front", " front ") used as a calibration key
func NormalizeView(view string) string {
	return strings.ToLower(strings.TrimSpace(view))
}
