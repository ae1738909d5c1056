package upload

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parsedPart struct {
	name     string
	filename string
	ctype    string
	data     string
}

func readForm(t *testing.T, contentType string, r io.Reader) []parsedPart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	var parts []parsedPart
	mr := multipart.NewReader(r, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, parsedPart{
			name:     p.FormName(),
			filename: p.FileName(),
			ctype:    p.Header.Get("Content-Type"),
			data:     string(data),
		})
	}
	return parts
}

func TestEncode_LengthMatchesBody(t *testing.T) {
	form := &Form{}
	form.AddField("title", "Go Patterns")
	form.AddField("price", "29.99")
	form.AddFile("file", FromBytes("book.pdf", "application/pdf", bytes.Repeat([]byte("x"), 4096)))
	form.AddFile("thumbnail", FromBytes("cover.png", "image/png", []byte("png-data")))

	body, err := Encode(form)
	require.NoError(t, err)

	data, err := io.ReadAll(body.Reader())
	require.NoError(t, err)
	assert.Equal(t, body.Length, int64(len(data)))

	parts := readForm(t, body.ContentType, bytes.NewReader(data))
	require.Len(t, parts, 4)

	// Порядок полей совпадает с порядком добавления
	assert.Equal(t, parsedPart{name: "title", data: "Go Patterns"}, parts[0])
	assert.Equal(t, parsedPart{name: "price", data: "29.99"}, parts[1])
	assert.Equal(t, "file", parts[2].name)
	assert.Equal(t, "book.pdf", parts[2].filename)
	assert.Equal(t, "application/pdf", parts[2].ctype)
	assert.Len(t, parts[2].data, 4096)
	assert.Equal(t, "thumbnail", parts[3].name)
	assert.Equal(t, "png-data", parts[3].data)
}

func TestEncode_Restartable(t *testing.T) {
	form := &Form{}
	form.AddField("title", "x")
	form.AddFile("file", FromBytes("a.zip", "application/zip", []byte("zipzip")))

	body, err := Encode(form)
	require.NoError(t, err)

	first, err := io.ReadAll(body.Reader())
	require.NoError(t, err)
	second, err := io.ReadAll(body.Reader())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_NilAttachmentSkipped(t *testing.T) {
	form := &Form{}
	form.AddField("price", "29.99")
	form.AddFile("thumbnail", nil)
	assert.Empty(t, form.Files)
}

func TestEncode_FileChanged(t *testing.T) {
	a := FromBytes("a.pdf", "application/pdf", []byte("12345"))
	a.Size = 10

	form := &Form{}
	form.AddFile("file", a)
	body, err := Encode(form)
	require.NoError(t, err)

	_, err = io.ReadAll(body.Reader())
	assert.ErrorContains(t, err, "changed")
}

func TestEncode_ReaderCloseStopsWriter(t *testing.T) {
	form := &Form{}
	form.AddFile("file", FromBytes("big.bin", "application/zip", make([]byte, 1<<20)))
	body, err := Encode(form)
	require.NoError(t, err)

	r := body.Reader()
	buf := make([]byte, 16)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "guide.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 content"), 0o600))

	a, err := FromFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "guide.pdf", a.Filename)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, int64(16), a.Size)

	rc, err := a.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4 content", string(data))

	// Без расширения тип определяется по содержимому
	noext := filepath.Join(dir, "cover")
	require.NoError(t, os.WriteFile(noext, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))
	a, err = FromFile(noext)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.ContentType)

	_, err = FromFile(filepath.Join(dir, "missing.zip"))
	assert.Error(t, err)

	_, err = FromFile(dir)
	assert.Error(t, err)
}

func TestFromBytes_DetectsType(t *testing.T) {
	a := FromBytes("x", "", []byte("%PDF-1.7"))
	assert.Equal(t, "application/pdf", a.ContentType)
}
