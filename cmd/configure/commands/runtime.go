package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/benvon/todo-everyday/internal/config"
	"github.com/benvon/todo-everyday/internal/database"
	"github.com/benvon/todo-everyday/internal/logger"
	"github.com/benvon/todo-everyday/internal/services/todos"
	"go.uber.org/zap"
)

// runtime bundles the connections a command needs
type runtime struct {
	cfg     *config.Config
	db      *database.DB
	logger  *zap.Logger
	service *todos.Service
}

// connect loads configuration and opens the database
func connect() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.NewDevelopmentLogger(cfg.ServerDebugMode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		db:      db,
		logger:  zapLogger,
		service: todos.NewService(database.NewTodoRepository(db), zapLogger),
	}, nil
}

func (rt *runtime) close() {
	if err := rt.db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
	_ = logger.Sync(rt.logger)
}

// withRuntime opens a runtime for the duration of fn
func withRuntime(ctx context.Context, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := connect()
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(ctx, rt)
}
