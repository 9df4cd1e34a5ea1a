package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, IsValidClock(s), s)
	}
	for _, s := range []string{"24:00", "9:30", "09:60", "0930", ""} {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"081234567890", "6281234567890", true},
		{"+62 812-3456-7890", "6281234567890", true},
		{"6281234567890", "6281234567890", true},
		{"0812345", "", false},
		{"62812345678901234", "", false},
		{"12345678901", "", false},
		{"08123abc890", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizePhoneNumber(c.input)
		assert.Equal(t, c.ok, ok, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"oneof=Hadir Izin Alpha"`
	Count  int    `json:"count" validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	errs := Struct(sampleRequest{Email: "a@b.cd", Status: "Hadir", Count: 1})
	assert.Nil(t, errs)
	assert.NoError(t, errs.Err())

	errs = Struct(sampleRequest{Email: "nope", Status: "Bolos", Count: 0})
	require.Len(t, errs, 3)
	m := errs.ToMap()
	assert.Equal(t, "must be a valid email", m["email"])
	assert.Equal(t, "must be one of: Hadir Izin Alpha", m["status"])
	assert.Equal(t, "must be at least 1", m["count"])
	assert.Error(t, errs.Err())
}

func TestValidationErrorsAdd(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())
	errs.Add("date", "invalid date format")
	assert.EqualError(t, errs.Err(), "date: invalid date format")
}
