package upload

import (
	"context"
	"sync"
)

// EventKind тип события потока загрузки
type EventKind int

const (
	EventProgress EventKind = iota
	EventResult
	EventError
)

// Event - элемент потока: прогресс либо единственный завершающий результат
type Event[T any] struct {
	Result   *T
	Err      error
	Kind     EventKind
	Progress int
}

// Terminal сообщает, является ли событие завершающим
func (e Event[T]) Terminal() bool {
	return e.Kind != EventProgress
}

// Operation выполняет загрузку, сообщая прогресс через progress
type Operation[T any] func(ctx context.Context, progress ProgressFunc) (*T, error)

// Stream - холодный поток событий загрузки. Операция не запускается, пока
// не вызван Events; каждый вызов Events запускает ее заново.
type Stream[T any] struct {
	op Operation[T]
}

// NewStream создает поток для операции
func NewStream[T any](op Operation[T]) *Stream[T] {
	return &Stream[T]{op: op}
}

// Events запускает операцию и возвращает канал событий. Канал закрывается
// после ровно одного завершающего события (EventResult или EventError).
// Потребитель должен читать канал до закрытия либо отменить ctx.
func (s *Stream[T]) Events(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], 1)

	go func() {
		defer close(ch)

		var (
			mu     sync.Mutex
			sealed bool
		)
		progress := func(percent int) {
			mu.Lock()
			defer mu.Unlock()
			if sealed {
				return
			}
			select {
			case ch <- Event[T]{Kind: EventProgress, Progress: percent}:
			case <-ctx.Done():
			}
		}

		result, err := s.op(ctx, progress)

		mu.Lock()
		sealed = true
		mu.Unlock()

		final := Event[T]{Kind: EventResult, Result: result}
		if err != nil {
			final = Event[T]{Kind: EventError, Err: err}
		}

		select {
		case ch <- final:
		case <-ctx.Done():
			// Потребитель мог уйти: освобождаем буфер от непрочитанного
			// прогресса, чтобы завершающее событие не блокировалось
			select {
			case <-ch:
			default:
			}
			ch <- final
		}
	}()

	return ch
}

// Wait запускает операцию и дожидается результата, передавая прогресс в onProgress
func (s *Stream[T]) Wait(ctx context.Context, onProgress ProgressFunc) (*T, error) {
	for ev := range s.Events(ctx) {
		switch ev.Kind {
		case EventProgress:
			if onProgress != nil {
				onProgress(ev.Progress)
			}
		case EventResult:
			return ev.Result, nil
		case EventError:
			return nil, ev.Err
		}
	}
	return nil, context.Canceled
}
