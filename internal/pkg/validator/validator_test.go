package validator

import (
	"testing"
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
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", " ", ""}
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

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-01-10"); !ok {
		t.Error("IsValidDate(\"2024-01-10\") = false, want true")
	}
	for _, s := range []string{"2024-13-01", "10-01-2024", "2024/01/10", "", "abc"} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	for _, s := range []string{"09:00", "09:00:00", "23:59:59"} {
		if _, ok := IsValidTimeOfDay(s); !ok {
			t.Errorf("IsValidTimeOfDay(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"24:00", "9am", "", "09-00"} {
		if _, ok := IsValidTimeOfDay(s); ok {
			t.Errorf("IsValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"PRESENT", "LATE", "ABSENT"}
	if !IsInSlice("LATE", slice) {
		t.Error("IsInSlice(\"LATE\") = false, want true")
	}
	if IsInSlice("late", slice) {
		t.Error("IsInSlice(\"late\") = true, want false")
	}
	if IsInSlice("x", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}
