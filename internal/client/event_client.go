package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// EventAPI 届次接口
type EventAPI interface {
	// ListEvents 获取届次列表与当前届次指针
	ListEvents(ctx context.Context) (*dto.EventListResponse, error)
	// CreateEvent 创建届次；名称先经客户端校验，服务端再次校验
	CreateEvent(ctx context.Context, name string) (*dto.Event, error)
	// UpdateEvent 重命名届次
	UpdateEvent(ctx context.Context, id int64, name string) error
	// DeleteEvent 删除届次；当前届次或仍有比赛项目引用时服务端拒绝
	DeleteEvent(ctx context.Context, id int64) error
	// SwitchEvent 将当前届次指针切换到 id
	SwitchEvent(ctx context.Context, id int64) error
}

type eventClient struct {
	r      *resty.Client
	logger *zap.Logger
}

// newEventClient 创建 EventAPI 实例
func newEventClient(r *resty.Client, logger *zap.Logger) EventAPI {
	return &eventClient{r: r, logger: logger}
}

func (c *eventClient) ListEvents(ctx context.Context) (*dto.EventListResponse, error) {
	var list dto.EventListResponse
	resp, err := c.r.R().SetContext(ctx).Get("/admin/settings/events")
	if err := decode(resp, err, &list); err != nil {
		c.logger.Error("获取届次列表失败", zap.Error(err))
		return nil, err
	}
	return &list, nil
}

func (c *eventClient) CreateEvent(ctx context.Context, name string) (*dto.Event, error) {
	if err := ValidateEventName(name); err != nil {
		return nil, err
	}

	var event dto.Event
	resp, err := c.r.R().SetContext(ctx).
		SetBody(&dto.CreateEventRequest{Name: name}).
		Post("/admin/settings/events")
	if err := decode(resp, err, &event); err != nil {
		c.logger.Error("创建届次失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

func (c *eventClient) UpdateEvent(ctx context.Context, id int64, name string) error {
	if err := ValidateEventName(name); err != nil {
		return err
	}

	resp, err := c.r.R().SetContext(ctx).
		SetBody(&dto.UpdateEventRequest{Name: name}).
		Put(fmt.Sprintf("/admin/settings/events/%d", id))
	if err := decode(resp, err, nil); err != nil {
		c.logger.Error("重命名届次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (c *eventClient) DeleteEvent(ctx context.Context, id int64) error {
	resp, err := c.r.R().SetContext(ctx).
		Delete(fmt.Sprintf("/admin/settings/events/%d", id))
	if err := decode(resp, err, nil); err != nil {
		c.logger.Error("删除届次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (c *eventClient) SwitchEvent(ctx context.Context, id int64) error {
	resp, err := c.r.R().SetContext(ctx).
		Post(fmt.Sprintf("/admin/settings/events/%d/switch", id))
	if err := decode(resp, err, nil); err != nil {
		c.logger.Error("切换当前届次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}
