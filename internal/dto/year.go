package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// AcademicYear accepts the year field in any of the shapes clients send
// it: the JSON number 2024, the string "2024", or the canonical string
// "2024-2025". Normalize always produces the canonical form.
type AcademicYear string

func (y *AcademicYear) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*y = AcademicYear(s)
	return nil
}

// Normalize returns the canonical "YYYY-YYYY" representation, or an
// error when the value is not a year or the range is not consecutive.
func (y AcademicYear) Normalize() (string, error) {
	raw := strings.TrimSpace(string(y))
	if raw == "" {
		return "", fmt.Errorf("year is required")
	}

	if strings.Contains(raw, "-") {
		parts := strings.SplitN(raw, "-", 2)
		first, err1 := strconv.Atoi(parts[0])
		second, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || second != first+1 {
			return "", fmt.Errorf("invalid year format: %s", raw)
		}
		return fmt.Sprintf("%d-%d", first, second), nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("invalid year format: %s", raw)
	}
	return fmt.Sprintf("%d-%d", year, year+1), nil
}
