package engine

import "strings"

// EducationLevel is an ordinal scale. The zero value means the level is
// unknown or not declared.
type EducationLevel int

const (
	EducationNone EducationLevel = iota
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

func (l EducationLevel) String() string {
	switch l {
	case EducationBachelor:
		return "bachelor"
	case EducationMaster:
		return "master"
	case EducationDoctorate:
		return "doctorate"
	default:
		return "none"
	}
}

var educationKeywords = []struct {
	level    EducationLevel
	keywords []string
}{
	{EducationDoctorate, []string{"phd", "ph.d", "doctorate", "doctoral"}},
	{EducationMaster, []string{"master", "msc", "m.sc", "mba"}},
	{EducationBachelor, []string{"bachelor", "bsc", "b.sc", "undergraduate"}},
}

// DetectEducation returns the highest education level mentioned in the text,
// or EducationNone when no degree keyword is present.
func DetectEducation(text string) EducationLevel {
	lowered := strings.ToLower(text)
	for _, group := range educationKeywords {
		for _, keyword := range group.keywords {
			if containsToken(lowered, keyword) {
				return group.level
			}
		}
	}
	return EducationNone
}

// ParseEducationLevel maps a declared requirement string ("master",
// "Bachelor's degree", ...) to the ordinal scale.
func ParseEducationLevel(s string) EducationLevel {
	return DetectEducation(s)
}
