package coder

import "testing"

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain code",
			raw:  "print('hello')\n",
			want: "print('hello')",
		},
		{
			name: "python fence",
			raw:  "```python\nprint('hello')\n```",
			want: "print('hello')",
		},
		{
			name: "bare fence",
			raw:  "```\nx = 1\n```\n",
			want: "x = 1",
		},
		{
			name: "prose around block",
			raw:  "Sure! Here is the script:\n\n```python\nimport sys\nprint(sys.argv)\n```\n\nLet me know if you need changes.",
			want: "import sys\nprint(sys.argv)",
		},
		{
			name: "unterminated fence",
			raw:  "```python\nprint(1)",
			want: "print(1)",
		},
		{
			name: "stray closing fence",
			raw:  "print(1)\n```",
			want: "print(1)",
		},
		{
			name: "first of two blocks",
			raw:  "```python\na = 1\n```\ntext\n```python\nb = 2\n```",
			want: "a = 1",
		},
		{
			name: "crlf line endings",
			raw:  "```python\r\nprint(1)\r\n```",
			want: "print(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.raw); got != tt.want {
				t.Errorf("StripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
