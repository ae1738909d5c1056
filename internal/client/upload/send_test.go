package upload

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/digimarket/internal/client/api"
)

func TestDo_SendsMultipartWithProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 50_000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, r.ContentLength, int64(len(data)))

		parts := readForm(t, r.Header.Get("Content-Type"), bytes.NewReader(data))
		require.Len(t, parts, 2)
		assert.Equal(t, "title", parts[0].name)
		assert.Equal(t, "file", parts[1].name)
		assert.Equal(t, len(payload), len(parts[1].data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	form := &Form{}
	form.AddField("title", "Video course")
	form.AddFile("file", FromBytes("course.mp4", "video/mp4", payload))

	var (
		mu       sync.Mutex
		progress []int
	)
	resp, err := Do(context.Background(), api.NewClient(server.URL), http.MethodPost, "/api/v1/products/", form, func(p int) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.LessOrEqual(t, progress[len(progress)-1], 100)
}

func TestDo_ServerErrorPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","price"],"msg":"Input should be greater than 0"}]}`))
	}))
	defer server.Close()

	form := &Form{}
	form.AddField("price", "0")

	_, err := Do(context.Background(), api.NewClient(server.URL), http.MethodPut, "/api/v1/products/1", form, nil)
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Input should be greater than 0", apiErr.Detail)
	assert.JSONEq(t, `{"detail":[{"loc":["body","price"],"msg":"Input should be greater than 0"}]}`, string(apiErr.Body))
}
