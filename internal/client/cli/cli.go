// Package cli реализует командную строку клиента маркетплейса.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/client/app"
	"github.com/iudanet/digimarket/internal/client/config"
	"github.com/iudanet/digimarket/internal/client/iocli"
)

// ErrNotAuthenticated возвращается командами, которым нужна сессия
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'digimarket login' first")

// skipApp - аннотация команд, которым не нужны хранилище и API
const skipApp = "skip-app"

// VersionInfo задается через ldflags при сборке
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli связывает команды cobra с сервисами клиента
type Cli struct {
	io      iocli.IO
	app     *app.App
	logger  *slog.Logger
	level   *slog.LevelVar
	cfgFile string
	version VersionInfo
}

// Option настраивает Cli
type Option func(*Cli)

// WithLogger задает логгер (по умолчанию slog.Default)
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cli) {
		c.logger = logger
	}
}

// WithLevel задает уровень, который выставляется из конфигурации
func WithLevel(level *slog.LevelVar) Option {
	return func(c *Cli) {
		c.level = level
	}
}

// WithVersion задает информацию о сборке
func WithVersion(v VersionInfo) Option {
	return func(c *Cli) {
		c.version = v
	}
}

func New(io iocli.IO, opts ...Option) *Cli {
	c := &Cli{
		io:      io,
		version: VersionInfo{Version: "dev", BuildDate: "unknown", GitCommit: "unknown"},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Execute выполняет команду с аргументами args (без имени программы)
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.io)

	defer c.close()

	return root.ExecuteContext(ctx)
}

func (c *Cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "digimarket",
		Short:         "Digital goods marketplace client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := cmd.Annotations[skipApp]; ok || cmd.Name() == "help" {
				return nil
			}
			return c.setup(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")

	c.addCommands(root)
	return root
}

// setup загружает конфигурацию и открывает App
func (c *Cli) setup(cmd *cobra.Command) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v, c.cfgFile)
	if err != nil {
		return err
	}

	if c.level != nil {
		c.level.Set(cfg.SlogLevel())
	}

	a, err := app.New(cmd.Context(), cfg, c.logger, app.OnSessionExpired(c.sessionExpired))
	if err != nil {
		return err
	}
	c.app = a

	c.logger.Debug("client initialized", "api_url", cfg.APIURL, "db", cfg.DBPath)
	return nil
}

func (c *Cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.logger.Error("failed to close storage", "error", err)
	}
	c.app = nil
}

// sessionExpired - аналог перехода на страницу логина
func (c *Cli) sessionExpired(ctx context.Context) {
	c.io.Println("Session expired. Please run 'digimarket login' again.")
}

// requireAuth проверяет наличие сессии без обращения к серверу
func (c *Cli) requireAuth() error {
	if !c.app.Store.State().IsAuthenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// ErrorMessage возвращает текст ошибки для вывода пользователю
func ErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

func (c *Cli) printVersion() {
	c.io.Println("Digimarket Client")
	c.io.Printf("Version:    %s\n", c.version.Version)
	c.io.Printf("Build Date: %s\n", c.version.BuildDate)
	c.io.Printf("Git Commit: %s\n", c.version.GitCommit)
}

func versionCommand(c *Cli) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: ""},
		Run: func(cmd *cobra.Command, args []string) {
			c.printVersion()
		},
	}
}

// errUsage - ошибка неверных аргументов команды
func errUsage(format string, a ...any) error {
	return fmt.Errorf("invalid arguments: "+format, a...)
}
