package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword_FallsBackToLineWhenNotTerminal(t *testing.T) {
	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	var out bytes.Buffer
	got, err := GetPassword(rdr("s3cret\n"), "Password", &out)
	require.NoError(t, err)
	require.Equal(t, "s3cret", got)
}

func TestGetPassword_Terminal(t *testing.T) {
	origTerm, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })
	isTerminal = func(int) bool { return true }

	readPassword = func(int) ([]byte, error) { return []byte("hidden"), nil }
	var out bytes.Buffer
	got, err := GetPassword(rdr(""), "Password", &out)
	require.NoError(t, err)
	require.Equal(t, "hidden", got)
	require.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(rdr(""), "Password", &out)
	require.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		current string
		want    string
		prompt  string
	}{
		{name: "blank keeps current", input: "\n", current: "Squats", want: "Squats", prompt: "Name [Squats]\n> "},
		{name: "answer replaces current", input: "Lunges\n", current: "Squats", want: "Lunges", prompt: "Name [Squats]\n> "},
		{name: "no current value", input: "Dips\n", want: "Dips", prompt: "Name\n> "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetWithDefault(rdr(tc.input), "Name", tc.current, &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.prompt, out.String())
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tc := range tests {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(rdr(tc.input), "Delete?", &out)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
