package upload

import (
	"context"
	"fmt"

	"github.com/iudanet/digimarket/internal/client/api"
)

// Do отправляет форму через клиент API, сообщая прогресс отправки тела.
// Прогресс не сообщается после возврата из Do.
func Do(ctx context.Context, client *api.Client, method, path string, form *Form, onProgress ProgressFunc) (*api.Response, error) {
	body, err := Encode(form)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	progress := NewProgress(body.Length, onProgress)
	reader := NewProgressReader(body.Reader(), progress)
	defer func() {
		_ = reader.Close()
	}()

	resp, err := client.Do(ctx, method, path, &api.RawBody{
		Reader:      reader,
		ContentType: body.ContentType,
		Length:      body.Length,
	})
	progress.Seal()

	return resp, err
}
