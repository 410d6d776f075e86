package client

import (
	"context"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
	"github.com/itsHenry35/sports-meeting-system-sub001/pkg/response"
)

func TestSettingsClient_GetSettings(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/admin/settings", func(ctx *gin.Context) {
			response.OK(ctx, dto.SystemSettings{
				Website: dto.WebsiteSettings{Name: "阳光中学运动会"},
				Competition: dto.CompetitionSettings{
					SubmissionStartTime: "2024-01-01 00:00:00",
					SubmissionEndTime:   "2024-01-10 00:00:00",
				},
				Scoring: dto.ScoringSettings{
					TeamPointsMapping: map[string]float64{"1": 10},
				},
			})
		})
	})

	settings, err := c.Settings.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings 应成功: %v", err)
	}
	if settings.Website.Name != "阳光中学运动会" {
		t.Errorf("站点名称不符: %s", settings.Website.Name)
	}
	if settings.Competition.SubmissionEndTime != "2024-01-10 00:00:00" {
		t.Errorf("提交结束时间不符: %s", settings.Competition.SubmissionEndTime)
	}
	if settings.Scoring.TeamPointsMapping["1"] != 10 {
		t.Errorf("团体积分不符: %v", settings.Scoring.TeamPointsMapping)
	}
}

func TestSettingsClient_UpdateSettings_RequestShape(t *testing.T) {
	var got dto.UpdateSettingsRequest
	c := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/admin/settings", func(ctx *gin.Context) {
			if err := ctx.ShouldBindJSON(&got); err != nil {
				response.BadRequest(ctx, 10001, "参数校验失败")
				return
			}
			response.OK(ctx, nil)
		})
	})

	start, end := "2024-01-01 00:00:00", "2024-01-10 00:00:00"
	req := &dto.UpdateSettingsRequest{
		Website:     &dto.WebsiteSettings{Name: "新名称"},
		DingTalk:    &dto.DingTalkSettings{AppKey: "k"},
		Competition: &dto.UpdateCompetitionSettings{SubmissionStartTime: &start, SubmissionEndTime: &end},
	}
	if err := c.Settings.UpdateSettings(context.Background(), req); err != nil {
		t.Fatalf("UpdateSettings 应成功: %v", err)
	}

	if got.Website == nil || got.Website.Name != "新名称" {
		t.Errorf("站点分区未按预期提交: %+v", got.Website)
	}
	if got.Competition == nil || got.Competition.SubmissionStartTime == nil ||
		*got.Competition.SubmissionStartTime != start {
		t.Errorf("提交窗口未按预期提交: %+v", got.Competition)
	}
	// 未设置的窗口不应出现在请求中
	if got.Competition.VotingStartTime != nil {
		t.Error("未设置的投票窗口不应提交")
	}
	if got.Dashboard != nil {
		t.Error("缺省的大屏分区不应提交")
	}
}

func TestSettingsClient_UpdateSettings_ServerErrorVerbatim(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.PUT("/admin/settings", func(ctx *gin.Context) {
			response.BadRequest(ctx, 10002, "积分名次格式错误")
		})
	})

	err := c.Settings.UpdateSettings(context.Background(), &dto.UpdateSettingsRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("期望 APIError，实际: %v", err)
	}
	if apiErr.Code != 10002 || apiErr.Message != "积分名次格式错误" {
		t.Errorf("服务端错误应原样透出，实际: %+v", apiErr)
	}
}

func TestSettingsClient_RebuildMapping(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(r *gin.Engine) {
		r.POST("/admin/settings/rebuild-mapping", func(ctx *gin.Context) {
			calls++
			response.OK(ctx, nil)
		})
	})

	if err := c.Settings.RebuildMapping(context.Background()); err != nil {
		t.Fatalf("RebuildMapping 应成功: %v", err)
	}
	if calls != 1 {
		t.Errorf("期望恰好一次重建请求，实际 %d 次", calls)
	}
}

func TestSettingsClient_GetMappingLogs(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/admin/settings/rebuild-mapping/logs", func(ctx *gin.Context) {
			response.OK(ctx, dto.MappingLogsResponse{
				Logs: []string{"开始重建", "完成，共 321 条关系"},
			})
		})
	})

	logs, err := c.Settings.GetMappingLogs(context.Background())
	if err != nil {
		t.Fatalf("GetMappingLogs 应成功: %v", err)
	}
	if len(logs) != 2 || logs[0] != "开始重建" {
		t.Errorf("日志不符: %v", logs)
	}
}

func TestSettingsClient_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/admin/settings", func(ctx *gin.Context) {
			ctx.String(200, "not json")
		})
	})

	_, err := c.Settings.GetSettings(context.Background())
	if err == nil {
		t.Fatal("畸形响应应作为一般失败返回")
	}
}
