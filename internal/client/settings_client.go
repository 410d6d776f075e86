package client

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// SettingsAPI 系统设置接口
type SettingsAPI interface {
	// GetSettings 获取系统设置完整快照
	GetSettings(ctx context.Context) (*dto.SystemSettings, error)
	// UpdateSettings 部分更新系统设置；缺省分区保持服务端原值
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) error
	// RebuildMapping 触发家长-学生关系重建（服务端异步执行，本调用不等待完成）
	// 破坏性操作：会替换现有关系数据
	RebuildMapping(ctx context.Context) error
	// GetMappingLogs 获取最近一次重建的日志行，可重复调用
	GetMappingLogs(ctx context.Context) ([]string, error)
}

type settingsClient struct {
	r      *resty.Client
	logger *zap.Logger
}

// newSettingsClient 创建 SettingsAPI 实例
func newSettingsClient(r *resty.Client, logger *zap.Logger) SettingsAPI {
	return &settingsClient{r: r, logger: logger}
}

func (c *settingsClient) GetSettings(ctx context.Context) (*dto.SystemSettings, error) {
	var settings dto.SystemSettings
	resp, err := c.r.R().SetContext(ctx).Get("/admin/settings")
	if err := decode(resp, err, &settings); err != nil {
		c.logger.Error("获取系统设置失败", zap.Error(err))
		return nil, err
	}
	return &settings, nil
}

func (c *settingsClient) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) error {
	resp, err := c.r.R().SetContext(ctx).SetBody(req).Put("/admin/settings")
	if err := decode(resp, err, nil); err != nil {
		c.logger.Error("更新系统设置失败", zap.Error(err))
		return err
	}
	return nil
}

func (c *settingsClient) RebuildMapping(ctx context.Context) error {
	resp, err := c.r.R().SetContext(ctx).Post("/admin/settings/rebuild-mapping")
	if err := decode(resp, err, nil); err != nil {
		c.logger.Error("触发关系重建失败", zap.Error(err))
		return err
	}
	return nil
}

func (c *settingsClient) GetMappingLogs(ctx context.Context) ([]string, error) {
	var logs dto.MappingLogsResponse
	resp, err := c.r.R().SetContext(ctx).Get("/admin/settings/rebuild-mapping/logs")
	if err := decode(resp, err, &logs); err != nil {
		c.logger.Error("获取重建日志失败", zap.Error(err))
		return nil, err
	}
	return logs.Logs, nil
}
