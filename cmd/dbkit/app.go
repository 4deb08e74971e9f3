package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduardofuncao/dbkit/internal/config"
	"github.com/eduardofuncao/dbkit/internal/logger"
	"github.com/eduardofuncao/dbkit/internal/styles"
	"github.com/eduardofuncao/dbkit/pkg/connector"
)

type App struct {
	cfgFile string
	logCfg  logger.Config

	config *config.Config
	log    *zap.Logger
}

func (a *App) setup() error {
	log, err := logger.New(a.logCfg)
	if err != nil {
		return err
	}
	a.log = log

	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("could not load config file: %w", err)
	}
	a.config = cfg
	styles.InitScheme(cfg.Style.Accent)
	return nil
}

func (a *App) teardown() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// connect builds and connects the connector for conn. The caller must
// Disconnect it.
func (a *App) connect(ctx context.Context, conn *config.ConnectionYAML) (connector.Connector, error) {
	c, err := conn.Connector(connector.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("could not create connection %s/%s: %w", conn.DBType, conn.Name, err)
	}
	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("could not establish connection to %s/%s: %w", conn.DBType, conn.Name, err)
	}
	return c, nil
}

func connLabel(conn *config.ConnectionYAML) string {
	return styles.Title.Render(fmt.Sprintf("%s/%s", conn.DBType, conn.Name))
}
