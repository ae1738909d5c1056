package upload

import (
	"io"
	"math"
	"sync"
)

// ProgressFunc получает процент отправленных байт (0-100)
type ProgressFunc func(percent int)

// Progress считает отправленные байты и сообщает процент.
// Значения не убывают, не превышают 100 и повторно не сообщаются.
// После Seal обратный вызов больше не выполняется.
type Progress struct {
	fn     ProgressFunc
	total  int64
	sent   int64
	last   int
	sealed bool
	mu     sync.Mutex
}

// NewProgress создает счетчик для тела длиной total
func NewProgress(total int64, fn ProgressFunc) *Progress {
	return &Progress{fn: fn, total: total, last: -1}
}

// Add учитывает n отправленных байт
func (p *Progress) Add(n int64) {
	if p == nil || n <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sent += n
	if p.sealed || p.fn == nil || p.total <= 0 {
		return
	}

	percent := Percent(p.sent, p.total)
	if percent <= p.last {
		return
	}
	p.last = percent
	p.fn(percent)
}

// Seal запрещает дальнейшие уведомления.
// Вызывается до сообщения о результате, чтобы прогресс не пришел после него.
func (p *Progress) Seal() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.sealed = true
	p.mu.Unlock()
}

// Percent вычисляет round(sent*100/total), ограниченный 100
func Percent(sent, total int64) int {
	if total <= 0 || sent <= 0 {
		return 0
	}
	v := int(math.Round(float64(sent) * 100 / float64(total)))
	if v > 100 {
		return 100
	}
	return v
}

// progressReader считает байты, прочитанные транспортом
type progressReader struct {
	rc       io.ReadCloser
	progress *Progress
}

// NewProgressReader оборачивает тело запроса
func NewProgressReader(rc io.ReadCloser, p *Progress) io.ReadCloser {
	return &progressReader{rc: rc, progress: p}
}

func (r *progressReader) Read(b []byte) (int, error) {
	n, err := r.rc.Read(b)
	r.progress.Add(int64(n))
	return n, err
}

func (r *progressReader) Close() error {
	return r.rc.Close()
}
