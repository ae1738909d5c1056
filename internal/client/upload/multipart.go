package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// Field - текстовое поле формы
type Field struct {
	Name  string
	Value string
}

// FilePart - вложение под фиксированным именем поля
type FilePart struct {
	Attachment *Attachment
	Name       string
}

// Form - содержимое multipart запроса. Поля и файлы сериализуются
// в порядке добавления.
type Form struct {
	Fields []Field
	Files  []FilePart
}

// AddField добавляет текстовое поле
func (f *Form) AddField(name, value string) {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
}

// AddFile добавляет вложение; nil пропускается
func (f *Form) AddFile(name string, a *Attachment) {
	if a == nil {
		return
	}
	f.Files = append(f.Files, FilePart{Name: name, Attachment: a})
}

// Body - закодированная форма с заранее известной длиной
type Body struct {
	form        *Form
	boundary    string
	ContentType string
	Length      int64
}

// Encode подготавливает форму к отправке. Длина тела вычисляется пробным
// проходом без чтения файлов: заголовки частей плюс объявленные размеры.
func Encode(form *Form) (*Body, error) {
	boundary := "digimarket" + strings.ReplaceAll(uuid.NewString(), "-", "")

	counter := &countingWriter{}
	if err := writeForm(counter, form, boundary, true); err != nil {
		return nil, err
	}

	return &Body{
		form:        form,
		boundary:    boundary,
		ContentType: "multipart/form-data; boundary=" + boundary,
		Length:      counter.n,
	}, nil
}

// Reader возвращает новый поток тела. Каждый вызов заново открывает файлы.
// Закрытие reader прерывает запись.
func (b *Body) Reader() io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(writeForm(pw, b.form, b.boundary, false))
	}()
	return pr
}

func writeForm(w io.Writer, form *Form, boundary string, dryRun bool) error {
	cw, counting := w.(*countingWriter)

	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return fmt.Errorf("invalid boundary: %w", err)
	}

	for _, field := range form.Fields {
		if err := mw.WriteField(field.Name, field.Value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", field.Name, err)
		}
	}

	for _, part := range form.Files {
		a := part.Attachment
		pw, err := mw.CreatePart(fileHeader(part.Name, a))
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", part.Name, err)
		}

		if dryRun {
			if counting {
				cw.n += a.Size
			}
			continue
		}

		if err := copyAttachment(pw, a); err != nil {
			return fmt.Errorf("failed to write %s: %w", part.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return nil
}

// copyAttachment пишет ровно Size байт: иначе Content-Length разойдется с телом
func copyAttachment(w io.Writer, a *Attachment) error {
	r, err := a.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	n, err := io.CopyN(w, r, a.Size)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("file %s changed: read %d of %d bytes", a.Filename, n, a.Size)
		}
		return err
	}

	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return fmt.Errorf("file %s changed: larger than %d bytes", a.Filename, a.Size)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(name string, a *Attachment) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(a.Filename)))
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
