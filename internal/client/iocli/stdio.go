package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio читает из in и пишет в out.
// Пароль читается без эха, только если in - терминал.
type Stdio struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewStdio работает с os.Stdin и os.Stdout
func NewStdio() IO {
	return NewTerminal(os.Stdin, os.Stdout)
}

// NewTerminal создает IO поверх файла ввода (обычно os.Stdin)
func NewTerminal(in *os.File, out io.Writer) *Stdio {
	fd := int(in.Fd())
	return &Stdio{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

// NewBuffered создает IO для неинтерактивного ввода (pipe, тесты)
func NewBuffered(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.tty {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(s.fd)
	s.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// readLine возвращает строку без перевода строки; последняя строка без \n тоже допустима
func (s *Stdio) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
