package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/client"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// ── 届次模块业务错误 ──

var (
	ErrEventNotFound   = errors.New("届次不存在")
	ErrRowEditing      = errors.New("请先保存或取消正在编辑的届次")
	ErrNotEditing      = errors.New("当前没有正在编辑的届次")
	ErrDeleteCurrent   = errors.New("当前届次不可删除")
	ErrDeleteCancelled = errors.New("已取消删除")
)

// EventListController 届次列表控制器
//
// 每行处于查看态或编辑态，同一时刻至多一行在编辑（editingID 作为显式门闩）；
// 当前届次是单选指针，选中其他行即切换，选中当前行为空操作。
// "当前届次唯一"与"删除的引用完整性"由服务端保证，这里只透传其错误。
type EventListController struct {
	api     client.EventAPI
	confirm ConfirmFunc // 删除前确认，可为 nil
	logger  *zap.Logger

	mu        sync.Mutex
	loadSeq   uint64
	events    []dto.Event
	currentID int64
	editingID int64 // 0 表示无行处于编辑态
}

// NewEventListController 创建 EventListController 实例
func NewEventListController(api client.EventAPI, confirm ConfirmFunc, logger *zap.Logger) *EventListController {
	return &EventListController{
		api:     api,
		confirm: confirm,
		logger:  logger,
	}
}

// ────────────────────── Load ──────────────────────

// Load 拉取届次列表与当前届次指针；与设置加载同样的序号守卫
func (c *EventListController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	list, err := c.api.ListEvents(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		c.logger.Debug("丢弃过期的届次列表响应",
			zap.Uint64("seq", seq), zap.Uint64("latest", c.loadSeq))
		return nil
	}
	c.events = list.List
	c.currentID = list.CurrentEventID
	return nil
}

// Events 届次列表快照与当前届次 ID
func (c *EventListController) Events() ([]dto.Event, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]dto.Event, len(c.events))
	copy(events, c.events)
	return events, c.currentID
}

// EditingID 正在编辑的届次 ID，0 表示无
func (c *EventListController) EditingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// ────────────────────── 行编辑状态机 ──────────────────────

// BeginEdit 将某行置为编辑态；已有其他行在编辑时拒绝
func (c *EventListController) BeginEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editingID != 0 && c.editingID != id {
		return ErrRowEditing
	}
	if !c.containsLocked(id) {
		return ErrEventNotFound
	}
	c.editingID = id
	return nil
}

// SaveEdit 保存编辑中的行：校验名称、提交重命名、退出编辑态并重载列表
func (c *EventListController) SaveEdit(ctx context.Context, name string) error {
	c.mu.Lock()
	id := c.editingID
	c.mu.Unlock()
	if id == 0 {
		return ErrNotEditing
	}

	if err := client.ValidateEventName(name); err != nil {
		return err
	}

	if err := c.api.UpdateEvent(ctx, id, name); err != nil {
		return err
	}

	c.mu.Lock()
	c.editingID = 0
	c.mu.Unlock()

	return c.Load(ctx)
}

// CancelEdit 放弃编辑，不发起任何请求
func (c *EventListController) CancelEdit() {
	c.mu.Lock()
	c.editingID = 0
	c.mu.Unlock()
}

// ────────────────────── 创建 / 删除 / 切换 ──────────────────────

// Create 创建届次；名称校验失败不发起请求，成功后重载列表
func (c *EventListController) Create(ctx context.Context, name string) (*dto.Event, error) {
	if err := client.ValidateEventName(name); err != nil {
		return nil, err
	}

	event, err := c.api.CreateEvent(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete 删除届次
//
// 客户端先行拦截：当前届次不可删、有行在编辑时不可删。
// 服务端：被比赛项目引用时拒绝，其错误信息原样透出。
func (c *EventListController) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.editingID != 0 {
		c.mu.Unlock()
		return ErrRowEditing
	}
	if id == c.currentID {
		c.mu.Unlock()
		return ErrDeleteCurrent
	}
	if !c.containsLocked(id) {
		c.mu.Unlock()
		return ErrEventNotFound
	}
	name := c.nameLocked(id)
	c.mu.Unlock()

	if c.confirm != nil {
		ok, err := c.confirm(ctx, fmt.Sprintf("确定删除届次 %q 吗？", name))
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeleteCancelled
		}
	}

	if err := c.api.DeleteEvent(ctx, id); err != nil {
		return err
	}

	return c.Load(ctx)
}

// Select 单选切换当前届次：选中当前届次为空操作，否则恰好发起一次切换并重载
func (c *EventListController) Select(ctx context.Context, id int64) error {
	c.mu.Lock()
	if id == c.currentID {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.api.SwitchEvent(ctx, id); err != nil {
		return err
	}

	return c.Load(ctx)
}

// ── 内部辅助方法 ──

func (c *EventListController) containsLocked(id int64) bool {
	for _, e := range c.events {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (c *EventListController) nameLocked(id int64) string {
	for _, e := range c.events {
		if e.ID == id {
			return e.Name
		}
	}
	return ""
}
