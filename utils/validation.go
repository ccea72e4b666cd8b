package utils

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := netmail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("email is not valid")
	}
	// reject display-name forms like "Bob <bob@example.com>"
	if addr.Address != email {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}

func ValidateUsername(username string) error {
	if len(username) == 0 || len(username) > 80 {
		return errors.New("username must be between 1 and 80 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

func ValidateSymptoms(symptoms string) error {
	trimmed := strings.TrimSpace(symptoms)
	if trimmed == "" {
		return errors.New("please describe your current symptoms")
	}
	if len(trimmed) > 5000 {
		return errors.New("symptoms must be at most 5000 characters")
	}
	return nil
}

func SamePassword(password string, confirmedPassword string) bool {
	return password == confirmedPassword
}

// SanitizeFilename keeps the base name of a client-supplied filename and
// drops characters that do not belong in a display name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"|?*`, r) {
			return -1
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "upload.pdf"
	}
	if len(name) > 255 {
		// keep the tail so the extension survives, starting on a rune boundary
		start := len(name) - 255
		for start < len(name) && !utf8.RuneStart(name[start]) {
			start++
		}
		name = name[start:]
	}
	return name
}
