package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/client"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/form"
)

// ── 系统设置模块业务错误 ──

var (
	ErrSettingsNotLoaded = errors.New("系统设置尚未加载")
	ErrRebuildPending    = errors.New("关系重建正在进行中，请稍候")
	ErrRebuildCancelled  = errors.New("已取消关系重建")
)

// RebuildPrompt 重建确认文案：明确告知破坏性后果
const RebuildPrompt = "重建将替换现有的家长-学生关系数据，且无法撤销。确定继续吗？"

// SettingsFormController 系统设置表单控制器
//
// 持有镜像服务端设置的可编辑表单状态：加载时展平为表单字段，
// 保存时重新嵌套为更新请求。加载带单调递增序号，过期响应被丢弃，
// 避免慢请求晚到覆盖新状态。
type SettingsFormController struct {
	api      client.SettingsAPI
	branding BrandingRefresher // 可为 nil（未启用缓存）
	confirm  ConfirmFunc       // 重建前确认，可为 nil（无人值守场景）
	logger   *zap.Logger

	mu         sync.Mutex
	loadSeq    uint64
	fields     *form.Fields
	rebuilding bool
}

// NewSettingsFormController 创建 SettingsFormController 实例
func NewSettingsFormController(api client.SettingsAPI, branding BrandingRefresher, confirm ConfirmFunc, logger *zap.Logger) *SettingsFormController {
	return &SettingsFormController{
		api:      api,
		branding: branding,
		confirm:  confirm,
		logger:   logger,
	}
}

// ────────────────────── Load ──────────────────────

// Load 拉取系统设置并展平为表单字段
//
// 每次调用领取一个新序号；响应返回时若已有更新的加载在途，
// 本次结果被丢弃（后发起者优先）。
func (c *SettingsFormController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	settings, err := c.api.GetSettings(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		c.logger.Debug("丢弃过期的设置加载响应",
			zap.Uint64("seq", seq), zap.Uint64("latest", c.loadSeq))
		return nil
	}
	c.fields = form.ToFormFields(settings)
	return nil
}

// Fields 当前表单字段；调用方直接修改后调用 Save
// 尚未加载时返回 nil
func (c *SettingsFormController) Fields() *form.Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// ────────────────────── Save ──────────────────────

// Save 将表单字段重新嵌套为更新请求并提交
//
// 客户端校验失败（如名次格式）在发起任何请求前返回。
// 成功后重新加载设置，并刷新站点品牌缓存。
func (c *SettingsFormController) Save(ctx context.Context) error {
	c.mu.Lock()
	fields := c.fields
	c.mu.Unlock()
	if fields == nil {
		return ErrSettingsNotLoaded
	}

	req, err := form.FromFormFields(fields)
	if err != nil {
		return err
	}

	if err := c.api.UpdateSettings(ctx, req); err != nil {
		return err
	}

	if err := c.Load(ctx); err != nil {
		return err
	}

	if c.branding != nil && req.Website != nil {
		if err := c.branding.Refresh(ctx, *req.Website); err != nil {
			// 缓存刷新失败不影响保存结果
			c.logger.Warn("刷新站点品牌缓存失败", zap.Error(err))
		}
	}

	return nil
}

// ────────────────────── 关系重建 ──────────────────────

// RebuildMapping 触发家长-学生关系重建
//
// 确认通过前不发起任何请求；重建请求在途期间再次触发返回 ErrRebuildPending。
func (c *SettingsFormController) RebuildMapping(ctx context.Context) error {
	c.mu.Lock()
	if c.rebuilding {
		c.mu.Unlock()
		return ErrRebuildPending
	}
	c.rebuilding = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.rebuilding = false
		c.mu.Unlock()
	}()

	if c.confirm != nil {
		ok, err := c.confirm(ctx, RebuildPrompt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRebuildCancelled
		}
	}

	if err := c.api.RebuildMapping(ctx); err != nil {
		return err
	}

	c.logger.Info("关系重建已触发")
	return nil
}

// FetchLogs 获取最近一次重建的日志行（按需手动刷新，无轮询）
func (c *SettingsFormController) FetchLogs(ctx context.Context) ([]string, error) {
	return c.api.GetMappingLogs(ctx)
}

// Settings 以当前表单字段重建的设置视图，供导出等只读场景使用
func (c *SettingsFormController) Settings() (*dto.UpdateSettingsRequest, error) {
	c.mu.Lock()
	fields := c.fields
	c.mu.Unlock()
	if fields == nil {
		return nil, ErrSettingsNotLoaded
	}
	return form.FromFormFields(fields)
}
