package registration

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidInput marks input rejected by a step's validator.
var ErrInvalidInput = errors.New("invalid input")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(email string) error {
	if err := validation.Validate(email, validation.Required, validation.Match(emailPattern)); err != nil {
		return fmt.Errorf("%w: email: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateTeam(team string, teams []any) error {
	if err := validation.Validate(team, validation.Required, validation.In(teams...)); err != nil {
		return fmt.Errorf("%w: team: %v", ErrInvalidInput, err)
	}
	return nil
}

// normalizePhone returns the E.164 form of raw when it parses as a valid
// number, trying it first as international and then in region. Anything
// else is returned trimmed.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)

	type candidate struct{ number, region string }

	var candidates []candidate
	if !strings.HasPrefix(raw, "+") && isDigits(raw) {
		candidates = append(candidates, candidate{"+" + raw, ""})
	}
	candidates = append(candidates, candidate{raw, region})

	for _, c := range candidates {
		num, err := phonenumbers.Parse(c.number, c.region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
