package branding

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/config"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// Cache 站点品牌信息缓存
//
// 平台各处展示的站点名称、域名缓存在 Redis；设置保存成功后由控制器
// 调用 Refresh 写入最新值，避免其他组件继续读到旧品牌信息。
type Cache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

const (
	keySiteName   = "branding:site_name"
	keySiteDomain = "branding:site_domain"
)

// NewCache 创建 Redis 连接并执行 Ping 健康检查
func NewCache(cfg *config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Cache{rdb: rdb, ttl: cfg.BrandingTTL, logger: logger}, nil
}

// Refresh 用最新的站点设置覆盖缓存
func (c *Cache) Refresh(ctx context.Context, site dto.WebsiteSettings) error {
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, keySiteName, site.Name, c.ttl)
	pipe.Set(ctx, keySiteDomain, site.Domain, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	c.logger.Debug("站点品牌缓存已刷新", zap.String("name", site.Name))
	return nil
}

// SiteName 读取缓存的站点名称；未缓存时返回空串
func (c *Cache) SiteName(ctx context.Context) (string, error) {
	name, err := c.rdb.Get(ctx, keySiteName).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// Close 关闭 Redis 连接
func (c *Cache) Close() error {
	return c.rdb.Close()
}
