package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestClient 启动一个伪造的管理端 API 并返回指向它的客户端
func newTestClient(t *testing.T, setup func(r *gin.Engine)) *Client {
	t.Helper()

	r := gin.New()
	setup(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := config.APIConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	}
	return New(&cfg, zap.NewNop())
}
