package common

import "testing"

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "no ANSI codes",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "red text",
			input: "\x1b[31mError\x1b[0m",
			want:  "Error",
		},
		{
			name:  "bold text",
			input: "\x1b[1mBold\x1b[0m",
			want:  "Bold",
		},
		{
			name:  "multiple colors",
			input: "\x1b[31mRed\x1b[0m and \x1b[32mGreen\x1b[0m",
			want:  "Red and Green",
		},
		{
			name:  "cursor movement",
			input: "\x1b[2J\x1b[HHello",
			want:  "Hello",
		},
		{
			name:  "256 color code",
			input: "\x1b[38;5;196mBright Red\x1b[0m",
			want:  "Bright Red",
		},
		{
			name:  "complex sequence",
			input: "\x1b[1;31;40mBold Red on Black\x1b[0m",
			want:  "Bold Red on Black",
		},
		{
			name:  "mixed with newlines",
			input: "\x1b[32mLine1\x1b[0m\nLine2",
			want:  "Line1\nLine2",
		},
		{
			name:  "ONT shell prompt",
			input: "\x1b[0mRTK.0#\x1b[K omcicli mib get 84",
			want:  "RTK.0# omcicli mib get 84",
		},
		{
			name:  "private mode sequence",
			input: "\x1b[?2004hroot# ",
			want:  "root# ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripANSI(tt.input)
			if got != tt.want {
				t.Errorf("StripANSI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lf only", "a\nb", "a\nb"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"pty double cr", "a\r\r\nb", "a\nb"},
		{"lone cr kept", "a\rb", "a\rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNewlines(tt.input); got != tt.want {
				t.Errorf("NormalizeNewlines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
