package controller

import (
	"context"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// ConfirmFunc 破坏性操作前的阻断式确认
// 返回 false 表示管理员放弃操作；错误表示确认过程本身失败（如终端不可用）
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// BrandingRefresher 站点品牌缓存刷新钩子，设置保存成功后调用
type BrandingRefresher interface {
	Refresh(ctx context.Context, site dto.WebsiteSettings) error
}
