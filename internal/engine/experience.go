package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns cover the phrasings candidates actually use: "8 years of
// experience", "experience: 5 years", "10+ yrs professional".
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})\+?\s*(?:years?|yrs?)\s+(?:of\s+)?experience`),
	regexp.MustCompile(`experience[:\s]\s*(\d{1,2})\s*(?:years?|yrs?)`),
	regexp.MustCompile(`(\d{1,2})\+?\s*(?:years?|yrs?)\s+(?:of\s+)?(?:professional|work)`),
}

// Values above this are treated as noise (phone numbers, years of birth).
const maxPlausibleYears = 50

// EstimateYears scans free text for explicit years-of-experience statements
// and returns the largest plausible value found. The second return value is
// false when no statement matches; callers must treat that as unknown, not
// as zero.
func EstimateYears(text string) (int, bool) {
	lowered := strings.ToLower(text)

	best := -1
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(lowered, -1) {
			years, err := strconv.Atoi(match[1])
			if err != nil || years > maxPlausibleYears {
				continue
			}
			if years > best {
				best = years
			}
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}
