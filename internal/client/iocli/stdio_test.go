package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := NewBuffered(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

// Несколько чтений подряд не теряют буферизованный ввод
func TestReadInput_Sequential(t *testing.T) {
	var out bytes.Buffer
	stdio := NewBuffered(strings.NewReader("alice@example.com\n  secret123  \nlast"), &out)

	email, err := stdio.ReadInput("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret123", password)

	last, err := stdio.ReadInput("Last: ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = stdio.ReadInput("More: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Email: Password: Last: More: ", out.String())
}

// Тест ReadInput: читаем из pipe вместо терминала
func TestReadInput_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	go func() {
		_, _ = w.Write([]byte("user input\n"))
		_ = w.Close()
	}()

	var out bytes.Buffer
	stdio := NewTerminal(r, &out)

	result, err := stdio.ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", result)

	// pipe - не терминал, пароль читается как обычная строка
	_, err = stdio.ReadPassword("Password: ")
	assert.ErrorIs(t, err, io.EOF)
}
