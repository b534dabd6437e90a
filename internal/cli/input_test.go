package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  riga-2  \n"))

	got, err := GetSimpleText(reader, "branch id", &out)
	require.NoError(t, err)
	assert.Equal(t, "riga-2", got)
	assert.Contains(t, out.String(), "branch id")
}

func TestGetSimpleTextPartialLineOnEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no-newline"))

	got, err := GetSimpleText(reader, "value", &out)
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "value", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetSecretUsesHiddenInput(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(" s3cr3t \n"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	got, err := GetSecret("access key", &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)
	assert.NotContains(t, out.String(), "s3cr3t", "the secret must never be echoed")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			reader := bufio.NewReader(strings.NewReader(tt.input))

			got, err := Confirm(reader, "purge everything?", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
