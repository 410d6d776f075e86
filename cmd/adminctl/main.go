package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/config"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/branding"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/client"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/controller"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/export"
	applogger "github.com/itsHenry35/sports-meeting-system-sub001/pkg/logger"
	"github.com/itsHenry35/sports-meeting-system-sub001/pkg/token"
)

// Version 构建时通过 ldflags 注入
var Version = "dev"

// cfgPath 全局配置文件路径
var cfgPath string

// appContext 命令运行所需的全部依赖
type appContext struct {
	cfg      *config.Config
	logger   *zap.Logger
	api      *client.Client
	branding *branding.Cache
	settings *controller.SettingsFormController
	events   *controller.EventListController
	exporter *export.Exporter
}

// setupApp 按 配置 → 日志 → Token 检查 → 客户端 → 缓存 → 控制器 的顺序初始化
func setupApp() (*appContext, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	// 过期或格式错误的 Token 在发起任何请求前就报错
	if cfg.API.Token != "" {
		claims, err := token.Inspect(cfg.API.Token)
		if err != nil {
			return nil, fmt.Errorf("管理员 Token 检查失败: %w", err)
		}
		logger.Debug("管理员 Token 检查通过", zap.String("user_id", claims.UserID))
	} else {
		logger.Warn("未配置管理员 Token，请求可能被服务端拒绝")
	}

	api := client.New(&cfg.API, logger)

	var cache *branding.Cache
	if cfg.Redis.Enabled {
		cache, err = branding.NewCache(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
	}

	app := &appContext{
		cfg:      cfg,
		logger:   logger,
		api:      api,
		branding: cache,
		exporter: export.NewExporter(logger),
	}
	// *branding.Cache 为 nil 时不能作为非空接口传入
	if cache != nil {
		app.settings = controller.NewSettingsFormController(api.Settings, cache, confirmPrompt, logger)
	} else {
		app.settings = controller.NewSettingsFormController(api.Settings, nil, confirmPrompt, logger)
	}
	app.events = controller.NewEventListController(api.Events, confirmPrompt, logger)

	return app, nil
}

func (a *appContext) close() {
	if a.branding != nil {
		_ = a.branding.Close()
	}
	_ = a.logger.Sync()
}

// confirmPrompt 破坏性操作前的终端确认
func confirmPrompt(_ context.Context, prompt string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("确定").
		Negative("取消").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "运动会平台系统设置管理工具",
	Long: `adminctl 是校园运动会平台的管理端命令行工具：
查看与修改系统设置（钉钉凭据、站点信息、比赛时间、积分表），
管理比赛届次（创建、重命名、删除、切换当前届次），
以及触发家长-学生关系重建并查看其日志。`,
}

// versionCmd 版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adminctl %s\n", Version)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// 用户主动取消不算失败
		if errors.Is(err, controller.ErrRebuildCancelled) || errors.Is(err, controller.ErrDeleteCancelled) {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
