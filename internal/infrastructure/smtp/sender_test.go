package smtp

import "testing"

func TestHeaderValueStripsLineBreaks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Your AI digest", "Your AI digest"},
		{"crlf injection", "Digest\r\nBcc: attacker@example.com", "Digest  Bcc: attacker@example.com"},
		{"bare newline", "Digest\nX-Spam: yes", "Digest X-Spam: yes"},
		{"trailing break", "Digest\r\n", "Digest"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := headerValue(tc.in); got != tc.want {
				t.Fatalf("headerValue(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
