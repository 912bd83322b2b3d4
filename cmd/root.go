package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/spf13/cobra"

	"github.com/eryajf/femcare/internal/config"
	"github.com/eryajf/femcare/internal/database"
	"github.com/eryajf/femcare/internal/server"
	"github.com/eryajf/femcare/internal/subsync"
)

var configFile string

// rootCmd 根命令,启动 HTTP 服务
var rootCmd = &cobra.Command{
	Use:   "femcare",
	Short: "FemCare+ 后端服务",
	Long:  `FemCare+ 移动端的后端网关:AI 咨询、养生内容生成、皮肤分析和订阅镜像同步。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("Command failed: %v", err)
		os.Exit(1)
	}
}

func runServer() error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	// 配置文件的 db.path 通过环境变量传给数据库单例
	if cfg.DB.Path != "" && os.Getenv("FEMCARE_DB_PATH") == "" {
		_ = os.Setenv("FEMCARE_DB_PATH", cfg.DB.Path)
	}
	db := database.GetDB()

	// 订阅镜像同步器:单协程消费,保证同一用户的事件按序落库
	syncer := subsync.NewSyncer(db)
	syncer.Start()

	srv := server.NewHTTPGinServer(cfg, db, syncer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		syncer.Stop()
		return err
	case sig := <-quit:
		logx.Info("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logx.Error("HTTP server shutdown error: %v", err)
	}

	// 先停服务再停同步器,保证已接收的事件全部落库
	syncer.Stop()

	if err := database.Close(); err != nil {
		logx.Error("Database close error: %v", err)
	}

	logx.Info("Server stopped")
	return nil
}
