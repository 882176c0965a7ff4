package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tiger-gateway/internal/config"
	"tiger-gateway/internal/event"
	"tiger-gateway/internal/gateway"
	"tiger-gateway/internal/journal"
	"tiger-gateway/internal/model"
	"tiger-gateway/internal/store"
)

// App 聚合核心依赖并驱动网关生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 连接网关、订阅预设标的并阻塞至退出信号。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("网关已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("gateway", a.cfg.App.GatewayName),
		zap.String("tiger_env", a.cfg.Tiger.Environment),
	)

	engine := event.NewEngine(a.logger)

	journalSvc, err := journal.NewService(a.store, a.logger)
	if err != nil {
		return fmt.Errorf("初始化留痕服务失败: %w", err)
	}
	if err := journalSvc.Attach(engine); err != nil {
		return err
	}

	gw := gateway.New(a.cfg.Tiger, a.cfg.App.GatewayName, a.cfg.Scheduler.QueryInterval, engine, a.logger)

	if err := gw.Connect(ctx); err != nil {
		return fmt.Errorf("网关连接失败: %w", err)
	}
	defer gw.Close()

	for _, vt := range a.cfg.Tiger.Symbols {
		symbol, exchange, err := model.ParseVTSymbol(vt)
		if err != nil {
			a.logger.Warn("跳过非法的预设标的", zap.String("symbol", vt), zap.Error(err))
			continue
		}
		if err := gw.Subscribe(model.SubscribeRequest{Symbol: symbol, Exchange: exchange}); err != nil {
			a.logger.Warn("订阅预设标的失败", zap.String("symbol", vt), zap.Error(err))
		}
	}

	if a.cfg.Server.MonitorPort > 0 {
		if err := startMonitorServer(ctx, journalSvc, gw, a.cfg.Server.MonitorPort, a.logger); err != nil {
			a.logger.Warn("启动监控服务失败", zap.Error(err))
		}
	}

	<-ctx.Done()
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("系统异常退出: %w", err)
	}

	a.logger.Info("网关收到退出信号，正在停止")
	engine.WaitAsync()
	return nil
}
