package format

import "testing"

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dashed", "2025-08-10", "20250810"},
		{"slashed", "2025/08/10", "20250810"},
		{"dotted", "2025.08.10", "20250810"},
		{"already normalized", "20250810", "20250810"},
		{"datetime truncated to date", "2025-08-10 14:30:00", "20250810"},
		{"partial passes through", "202508", "202508"},
		{"blank", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.raw); got != tt.want {
				t.Errorf("Date(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDay(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips leading zero", "2025-08-05", "5"},
		{"two digit day", "2025-08-15", "15"},
		{"zero day rejected", "2025-08-00", ""},
		{"partial date", "202508", ""},
		{"blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Day(tt.raw); got != tt.want {
				t.Errorf("Day(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestYearMonth(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"full date", "2025-08-10", "202508"},
		{"bare month", "202508", "202508"},
		{"too short", "2025", ""},
		{"blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearMonth(tt.raw); got != tt.want {
				t.Errorf("YearMonth(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRegistrationNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dashed", "123-45-67890", "1234567890"},
		{"spaced", " 123 45 67890 ", "1234567890"},
		{"already digits", "1234567890", "1234567890"},
		{"longer than ten digits kept whole", "123-45-67890-1", "12345678901"},
		{"no digits", "미등록", ""},
		{"blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegistrationNumber(tt.raw); got != tt.want {
				t.Errorf("RegistrationNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"thousands separators", "1,234,000", "1234000"},
		{"float noise rounded", "1234000.0", "1234000"},
		{"round half up", "1000.5", "1001"},
		{"round half away from zero", "-1000.5", "-1001"},
		{"negative", "-500", "-500"},
		{"blank", "", "0"},
		{"garbage", "n/a", "0"},
		{"surrounding whitespace", " 42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.raw); got != tt.want {
				t.Errorf("Currency(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"separators", "12,345", 12345},
		{"rounding", "99.4", 99},
		{"blank is zero", "", 0},
		{"unparseable is zero", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.raw); got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
