package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase and collapse", "  Neural   Information  ", "neural information"},
		{"int'l and conf.", "Int'l Conf. on Data Engineering", "international conference on data engineering"},
		{"proc. prefix", "Proc. of the VLDB Endowment", "proceedings of the vldb endowment"},
		{"ampersand", "Knowledge Discovery & Data Mining", "knowledge discovery and data mining"},
		{"journal abbreviation", "J. Mach. Learn. Res.", "journal machine learn research"},
		{"journal abbreviation without space", "J.ACM", "journal acm"},
		{"trans.", "IEEE Trans. Pattern Anal.", "ieee transactions pattern anal"},
		{"punctuation", "IEEE/CVF: Computer-Vision!", "ieee cvf computer vision"},
		{"accents", "Société Française", "societe francaise"},
		{"word containing abbreviation untouched", "Transactions on Graphics", "transactions on graphics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeVenue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trailing comma year", "Computer Vision and Pattern Recognition, 2019", "computer vision and pattern recognition"},
		{"trailing paren year", "Symposium on Theory of Computing (2021)", "symposium on theory of computing"},
		{"leading ordinal", "23rd International Conference on Machine Learning", "international conference on machine learning"},
		{"leading year and ordinal", "2019 15th Conference on Robot Learning", "conference on robot learning"},
		{"leading ordinal word", "Third Workshop on Things", "workshop on things"},
		{"trailing bare year", "CVPR 2020", "cvpr"},
		{"3d not an ordinal", "3D Vision", "3d vision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVenue(tt.input); got != tt.want {
				t.Errorf("NormalizeVenue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripOrgPrefixes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"acm sigplan conference on programming language design", "conference on programming language design"},
		{"ieee cvf conference on computer vision", "conference on computer vision"},
		{"the acm conference on computer and communications security", "conference on computer and communications security"},
		{"sigmod conference", "sigmod conference"},
		{"acm conference", "acm conference"},
		{"international conference on learning representations", "international conference on learning representations"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripOrgPrefixes(tt.input); got != tt.want {
				t.Errorf("StripOrgPrefixes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripOrgPrefixesFixedPoint(t *testing.T) {
	once := StripOrgPrefixes("ieee acm ieee cvf winter conference on applications")
	if once != "winter conference on applications" {
		t.Fatalf("got %q", once)
	}
	if again := StripOrgPrefixes(once); again != once {
		t.Errorf("not a fixed point: %q -> %q", once, again)
	}
}

func TestSignificantTokens(t *testing.T) {
	got := SignificantTokens("the journal of machine learning research and machine")
	want := []string{"machine", "learning", "research"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SignificantTokens() = %v, want %v", got, want)
	}

	if got := SignificantTokens(""); got != nil {
		t.Errorf("SignificantTokens(\"\") = %v, want nil", got)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Wei Wang 0003", "wei wang"},
		{"  José  M. Álvarez-Ruiz ", "jose m alvarez ruiz"},
		{"O'Neil, Pat", "o neil pat"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
