package utils

import (
	"regexp"
	"strconv"
	"strings"

	"directum-studio/models"
)

var (
	// 3" W x 2" H, 3.5 x 2.25 in, 3 x 2
	imprintInchesRegex = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(?:"|in\.?|inch|inches)?\s*(?:w|width)?\s*[x×]\s*([0-9]+(?:\.[0-9]+)?)`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)
)

// ParseImprintInches parses an imprint area description into inches.
// Examples: `3" W x 2" H`, `3.5 x 2.25 in`, `3w x 2h`.
// Returns nil when the text does not describe two positive dimensions.
func ParseImprintInches(text string) *models.PhysicalSize {
	s := strings.TrimSpace(whitespaceRegex.ReplaceAllString(strings.ToLower(text), " "))
	if s == "" {
		return nil
	}

	matches := imprintInchesRegex.FindStringSubmatch(s)
	if len(matches) != 3 {
		return nil
	}

	w, errW := strconv.ParseFloat(matches[1], 64)
	h, errH := strconv.ParseFloat(matches[2], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return nil
	}

	return &models.PhysicalSize{WIn: w, HIn: h}
}
