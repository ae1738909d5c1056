package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Attachment описывает файл для загрузки.
// Open вызывается на каждую попытку отправки, поэтому загрузку можно повторить.
type Attachment struct {
	Open        func() (io.ReadCloser, error)
	Filename    string
	ContentType string
	Size        int64
}

// FromFile создает вложение из файла на диске.
// Тип определяется по расширению, а если оно неизвестно - по содержимому.
func FromFile(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType, err := detectContentType(path)
	if err != nil {
		return nil, err
	}

	return &Attachment{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes создает вложение из данных в памяти
func FromBytes(filename, contentType string, data []byte) *Attachment {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Attachment{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func detectContentType(path string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
