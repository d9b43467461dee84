package services

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// MinPasswordLength applies to passwords set through registration or update.
// Login does not check it.
const MinPasswordLength = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: email is not a valid address", common.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return nil
}
