package term

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return &Terminal{
		in:      bufio.NewReader(strings.NewReader(input)),
		out:     &out,
		stdinfd: -1, // не терминал
	}, &out
}

func TestTerminal(t *testing.T) {
	t.Run("ReadLine возвращает строку без пробелов по краям", func(t *testing.T) {
		term, out := newTestTerminal("  value  \n")

		got, err := term.ReadLine("prompt: ")
		require.NoError(t, err)
		assert.Equal(t, "value", got)
		assert.Contains(t, out.String(), "prompt: ")
	})

	t.Run("ReadKey на не-терминале читает обычную строку", func(t *testing.T) {
		term, _ := newTestTerminal("secret-key\n")

		got, err := term.ReadKey("key: ")
		require.NoError(t, err)
		assert.Equal(t, "secret-key", got)
	})

	t.Run("ReadKey принимает последнюю строку без перевода", func(t *testing.T) {
		term, _ := newTestTerminal("secret-key")

		got, err := term.ReadKey("key: ")
		require.NoError(t, err)
		assert.Equal(t, "secret-key", got)
	})

	t.Run("Пустой ввод дает ошибку", func(t *testing.T) {
		term, _ := newTestTerminal("")

		_, err := term.ReadLine("prompt: ")
		assert.Error(t, err)
	})
}
