package agent

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hasura-metrics-adapter/cmd/server"
	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/engine"
	"github.com/hasura-metrics-adapter/pkg/logger"
	"github.com/hasura-metrics-adapter/pkg/logprocessor"
	"github.com/hasura-metrics-adapter/pkg/logtail"
	"github.com/hasura-metrics-adapter/pkg/registers"
	"github.com/hasura-metrics-adapter/pkg/signal"
	"github.com/hasura-metrics-adapter/pkg/sink"
	"github.com/hasura-metrics-adapter/pkg/util"
)

const component = "adapter"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hasura-metrics-adapter",
	Short: "Follows GraphQL engine logs, polls its admin API and ships metrics to DogStatsD",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithCli(cmd)
		if err != nil {
			// 统一输出错误到 stderr，不返回给 cobra
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "请检查配置文件路径、命令行参数或环境变量\n")
			os.Exit(1)
		}
		if err := runServer(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "服务运行失败: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（可选）")
	// 注册分组 flag
	initServerFlags(rootCmd)
	initEngineFlags(rootCmd)
	initStatsdFlags(rootCmd)
	initMonitorFlags(rootCmd)
	initLogFileFlags(rootCmd)
	initLogFlags(rootCmd)
}

// runServer 启动日志跟踪与轮询两个长期任务，任一失败或收到信号即整体退出
func runServer(cfg *config.Config) error {
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.SetDefaultCollector(component)

	util.PrintBanner("hasura-metrics", "GraphQL engine -> DogStatsD", "ColorBlue")
	logger.Info("configuration loaded", "",
		zap.String("engine", cfg.Engine.Endpoint),
		zap.Bool("admin_secret", cfg.HasAdminSecret()),
		zap.String("statsd", cfg.Statsd.Addr),
		zap.String("prefix", cfg.Statsd.Prefix),
		zap.String("log_file", cfg.LogFile.Path),
		zap.Duration("interval", cfg.Monitor.Interval),
		zap.Int("concurrency_limit", cfg.Monitor.ConcurrencyLimit),
		zap.Any("disabled_collectors", cfg.DisabledCollectors()),
	)
	if forced := cfg.ForcedDisabled(); len(forced) > 0 {
		logger.Warn("admin secret is not set, collectors requiring it are disabled", "",
			zap.Any("collectors", forced))
	}

	statsd, err := sink.NewStatsd(cfg.Statsd)
	if err != nil {
		return fmt.Errorf("create statsd sink: %w", err)
	}
	defer func() { _ = statsd.Close() }()

	client := engine.NewClient(cfg.Engine)
	bundle, err := registers.InitPromRegistry(cfg, client, statsd, true)
	if err != nil {
		return fmt.Errorf("init collectors: %w", err)
	}

	if cfg.Server.Enable {
		httpServer := server.NewHTTPServer(cfg.Server, bundle.Registry)
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("start HTTP server failed: %w", err)
		}
		defer func() {
			if err := httpServer.Shutdown(); err != nil {
				logger.Error("shutdown HTTP server failed", "", zap.Error(err))
			}
		}()
	}

	term := signal.NewTerminator()
	stop := signal.NotifyOnSignal(term)
	defer stop()

	processor := logprocessor.New(statsd, bundle.Factory.NewLogParseErrorsTotal())
	tailer := logtail.New(cfg.LogFile, processor.Process,
		logtail.WithLinesCounter(bundle.Factory.NewLogLinesTotal()))

	var g errgroup.Group
	g.Go(func() error {
		if err := tailer.Run(term); err != nil {
			term.Fire()
			return fmt.Errorf("log tailer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := bundle.Agent.Run(term); err != nil {
			term.Fire()
			return fmt.Errorf("polling orchestrator: %w", err)
		}
		return nil
	})

	runErr := g.Wait()
	if err := bundle.Agent.Shutdown(); err != nil {
		logger.Warn("collectors did not close cleanly", "", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("adapter stopped with error", "", zap.Error(runErr))
		return runErr
	}
	logger.Info("all services shutdown successfully", "")
	return nil
}
