package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/xerrors"
)

// Terminal обеспечивает интерактивный ввод через терминал. Ключ
// шифрования запрашивается без эха, чтобы он не оставался в истории
// экрана.
type Terminal struct {
	in      *bufio.Reader
	out     io.Writer
	stdinfd int
}

// NewTerminal создает новый экземпляр Terminal.
func NewTerminal() *Terminal {
	return &Terminal{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		stdinfd: int(os.Stdin.Fd()),
	}
}

// ReadKey запрашивает ключ шифрования без эха. Если стандартный ввод
// не терминал (например, конвейер), читается обычная строка.
func (t *Terminal) ReadKey(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)

	if !term.IsTerminal(t.stdinfd) {
		return t.readLine()
	}

	byteKey, err := term.ReadPassword(t.stdinfd)
	if err != nil {
		return "", xerrors.Errorf("failed to read key: %w", err)
	}
	fmt.Fprintln(t.out) // Новая строка после ввода
	return strings.TrimSpace(string(byteKey)), nil
}

// ReadLine запрашивает обычную строку.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", xerrors.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
