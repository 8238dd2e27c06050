// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ValidateEmail checks that an email address is well formed.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Format d'email invalide")
	}
	return nil
}

// ValidateUsername checks username length and shape.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("Le nom d'utilisateur doit contenir entre 3 et 50 caractères")
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("Le nom d'utilisateur ne peut pas commencer ou finir par un espace")
	}
	return nil
}

// ValidatePassword checks password bounds. The community predates strong
// password policies; existing accounts have short passwords, so only basic
// sanity limits apply.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("Le mot de passe est requis")
	}
	if len(password) > 128 {
		return fmt.Errorf("Le mot de passe ne peut pas dépasser 128 caractères")
	}
	return nil
}

// ValidateRating checks an optional comment rating.
func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 5 {
		return fmt.Errorf("La note doit être comprise entre 1 et 5")
	}
	return nil
}
