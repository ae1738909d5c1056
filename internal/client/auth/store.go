package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/digimarket/internal/client/storage"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// State - снимок состояния сессии.
// IsAuthenticated всегда равно Token != "": поле вычисляется, а не задается.
type State struct {
	User            *pkgapi.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Listener получает новое состояние после каждого изменения
type Listener func(State)

// persistedState - часть состояния, переживающая перезапуск.
// IsLoading не сохраняется никогда.
type persistedState struct {
	User            *pkgapi.User `json:"user"`
	Token           *string      `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type persistedEnvelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

const persistVersion = 0

// Store - единый источник истины о том, кто залогинен.
// Создается явно и передается зависимостям; тесты создают изолированные экземпляры.
type Store struct {
	service   Authenticator
	persist   storage.StateStorage
	logger    *slog.Logger
	listeners map[int]Listener
	state     State
	nextID    int
	mu        sync.Mutex
}

// NewStore создает store и восстанавливает {user, token} из хранилища.
// Сетевых запросов не делает; IsLoading всегда стартует с false.
func NewStore(ctx context.Context, service Authenticator, persist storage.StateStorage, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		service:   service,
		persist:   persist,
		logger:    logger,
		listeners: make(map[int]Listener),
	}

	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) error {
	data, err := s.persist.LoadState(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrStateNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load auth state: %w", err)
	}

	var env persistedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Поврежденный снимок не должен блокировать запуск
		s.logger.WarnContext(ctx, "discarding unreadable auth state", "error", err)
		return nil
	}

	s.state.User = cloneUser(env.State.User)
	if env.State.Token != nil {
		s.state.Token = *env.State.Token
	}
	s.state.IsAuthenticated = s.state.Token != ""

	return nil
}

// State возвращает копию текущего состояния
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Subscribe регистрирует listener; возвращает функцию отписки
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Login выполняет вход. При ошибке store сбрасывается в неаутентифицированное
// состояние, а ошибка возвращается вызывающему для отображения.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.update(ctx, func(st *State) {
		st.IsLoading = true
	})

	resp, err := s.service.Login(ctx, email, password)
	if err != nil {
		s.update(ctx, resetState)
		return err
	}

	user := resp.User
	s.update(ctx, func(st *State) {
		st.User = &user
		st.Token = resp.AccessToken
		st.IsLoading = false
	})

	return nil
}

// Register регистрирует пользователя. Сервер не выдает токен при регистрации,
// поэтому store запоминает созданного пользователя, но остается
// неаутентифицированным до явного Login. Предыдущая сессия при этом
// завершается: токен другого пользователя не остается рядом с новым User.
func (s *Store) Register(ctx context.Context, req pkgapi.RegisterRequest) error {
	s.update(ctx, func(st *State) {
		st.IsLoading = true
	})

	user, err := s.service.Register(ctx, req)
	if err != nil {
		s.update(ctx, resetState)
		return err
	}

	if s.State().IsAuthenticated {
		if err := s.service.Logout(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to end previous session", "error", err)
		}
	}

	s.update(ctx, func(st *State) {
		st.User = user
		st.Token = ""
		st.IsLoading = false
	})

	return nil
}

// Logout вызывает logout сервиса и безусловно сбрасывает состояние
func (s *Store) Logout(ctx context.Context) error {
	err := s.service.Logout(ctx)
	s.update(ctx, resetState)
	return err
}

// Reset сбрасывает состояние без обращения к сервису.
func (s *Store) Reset(ctx context.Context) {
	s.update(ctx, resetState)
}

// Expire сбрасывает состояние, если store считал пользователя
// аутентифицированным, и сообщает, был ли сброс. Используется обработчиком
// 401: из нескольких конкурентных вызовов true получает только один.
func (s *Store) Expire(ctx context.Context) bool {
	expired := false
	s.update(ctx, func(st *State) {
		if st.Token == "" {
			return
		}
		expired = true
		resetState(st)
	})
	return expired
}

// Refresh запрашивает текущего пользователя и обновляет store.
// Если токена в durable storage нет, сессия сбрасывается без сетевого запроса.
func (s *Store) Refresh(ctx context.Context) (*pkgapi.User, error) {
	user, err := s.service.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.update(ctx, resetState)
		return nil, nil
	}

	s.SetUser(ctx, user)
	return cloneUser(user), nil
}

// SetUser задает пользователя напрямую
func (s *Store) SetUser(ctx context.Context, user *pkgapi.User) {
	s.update(ctx, func(st *State) {
		st.User = user
	})
}

// SetLoading задает флаг загрузки напрямую
func (s *Store) SetLoading(ctx context.Context, loading bool) {
	s.update(ctx, func(st *State) {
		st.IsLoading = loading
	})
}

// update применяет изменение, выводит IsAuthenticated, сохраняет снимок
// и уведомляет подписчиков
func (s *Store) update(ctx context.Context, mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.state.User = cloneUser(s.state.User)
	s.state.IsAuthenticated = s.state.Token != ""
	snapshot := s.snapshot()

	if err := s.save(ctx); err != nil {
		// Как и localStorage, хранилище не должно ломать действие пользователя
		s.logger.WarnContext(ctx, "failed to persist auth state", "error", err)
	}

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// save вызывается под s.mu
func (s *Store) save(ctx context.Context) error {
	data, err := marshalState(s.state)
	if err != nil {
		return err
	}
	return s.persist.SaveState(ctx, data)
}

// snapshot вызывается под s.mu
func (s *Store) snapshot() State {
	st := s.state
	st.User = cloneUser(st.User)
	return st
}

func marshalState(st State) ([]byte, error) {
	env := persistedEnvelope{
		State: persistedState{
			User:            st.User,
			IsAuthenticated: st.Token != "",
		},
		Version: persistVersion,
	}
	if st.Token != "" {
		token := st.Token
		env.State.Token = &token
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth state: %w", err)
	}
	return data, nil
}

func resetState(st *State) {
	st.User = nil
	st.Token = ""
	st.IsLoading = false
}

func cloneUser(u *pkgapi.User) *pkgapi.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Username = cloneString(u.Username)
	c.FullName = cloneString(u.FullName)
	c.IsSellerApproved = cloneBool(u.IsSellerApproved)
	c.IsVerified = cloneBool(u.IsVerified)
	return &c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
