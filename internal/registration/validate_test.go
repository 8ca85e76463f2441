package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.org"}
	for _, e := range valid {
		assert.NoError(t, validateEmail(e), e)
	}

	invalid := []string{"", "not-an-email", "a@b", "a b@c.d", "a@b c.d", "@b.co", "a@.", "a@@b.co"}
	for _, e := range invalid {
		err := validateEmail(e)
		assert.ErrorIs(t, err, ErrInvalidInput, e)
	}
}

func TestValidateTeam(t *testing.T) {
	teams := []any{"alpha", "الفرقة الأولى"}

	assert.NoError(t, validateTeam("alpha", teams))
	assert.NoError(t, validateTeam("الفرقة الأولى", teams))
	assert.ErrorIs(t, validateTeam("Alpha", teams), ErrInvalidInput)
	assert.ErrorIs(t, validateTeam("", teams), ErrInvalidInput)
	assert.ErrorIs(t, validateTeam("gamma", teams), ErrInvalidInput)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, region, want string
	}{
		{"201001234567", "EG", "+201001234567"},
		{"+20 100 123 4567", "EG", "+201001234567"},
		{"01001234567", "EG", "+201001234567"},
		{"+1 650-253-0000", "EG", "+16502530000"},
		{" 12 ", "EG", "12"},
		{"call me", "EG", "call me"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePhone(tt.in, tt.region), tt.in)
	}
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "phone_shared", PhoneShared.String())
	assert.Equal(t, "team_chosen", TeamChosen.String())
	assert.Equal(t, "text_received", TextReceived.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
