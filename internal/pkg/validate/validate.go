package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Phone reports whether value is an E.164 number: a leading "+" followed by
// 8 to 15 digits, the first of which is non-zero.
func Phone(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) < 2 || value[0] != '+' {
		return false
	}

	digits := value[1:]
	if len(digits) < 8 || len(digits) > 15 {
		return false
	}
	if digits[0] == '0' {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}

	return true
}

// Code reports whether value is a 6-digit verification code.
func Code(value string) bool {
	if len(value) != 6 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
