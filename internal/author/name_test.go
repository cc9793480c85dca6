package author

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{"single word is last name", "Lovelace", Name{Last: "Lovelace"}},
		{"two words is First Last", "Ada Lovelace", Name{First: "Ada", Last: "Lovelace"}},
		{"middle initial joins first name", "Ada K. Lovelace", Name{First: "Ada K.", Last: "Lovelace"}},
		{"comma format", "Lovelace, Ada", Name{First: "Ada", Last: "Lovelace"}},
		{"comma format with spaces", "  Lovelace ,   Ada K ", Name{First: "Ada K", Last: "Lovelace"}},
		{"dblp homonym number", "Wei Wang 0003", Name{First: "Wei", Last: "Wang 0003"}},
		{"empty", "   ", Name{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseName(tt.input); got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Lovelace, Ada", "Ada Lovelace"},
		{"Lovelace", "Lovelace"},
		{"Wang, Wei", "Wei Wang"},
		{"Wei Wang 0003", "Wei Wang 0003"},
	}
	for _, tt := range tests {
		if got := ParseName(tt.input).String(); got != tt.want {
			t.Errorf("ParseName(%q).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}
