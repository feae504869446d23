package service

import (
	"fmt"
	"unicode"

	"github.com/staylucky/internal/config"
)

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return fmt.Errorf("%w: at least %d characters required", ErrWeakPassword, policy.MinLength)
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: an uppercase letter is required", ErrWeakPassword)
	}
	if policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: a lowercase letter is required", ErrWeakPassword)
	}
	if policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: a digit is required", ErrWeakPassword)
	}
	if policy.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: a special character is required", ErrWeakPassword)
	}

	return nil
}
