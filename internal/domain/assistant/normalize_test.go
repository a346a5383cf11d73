package assistant

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is your return policy?", "what is your return policy"},
		{"  RETURN   policy!! ", "return policy"},
		{"return-policy", "return policy"},
		{"???", ""},
		{"", ""},
		{"Where's order #1042?", "where s order 1042"},
	}

	for _, tc := range tests {
		if got := normalizeQuestion(tc.in); got != tc.want {
			t.Fatalf("normalizeQuestion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
