package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/form"
)

// settingsCmd 系统设置命令组
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "查看与修改系统设置",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前系统设置",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.settings.Load(cmd.Context()); err != nil {
			return err
		}
		printFields(app.settings.Fields())
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "修改系统设置并保存",
	Long: `先加载当前设置，再按标志覆盖指定字段后整体保存。

文本字段总是整体提交；时间窗口格式为 "开始,结束"，
例如 --submission "2026-09-01 00:00:00,2026-09-10 00:00:00"。
未设置的时间窗口不随请求提交，服务端原值保持不变。`,
	RunE: runSettingsEdit,
}

var settingsRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "触发家长-学生关系重建（破坏性操作，需确认）",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.settings.RebuildMapping(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("关系重建已触发，可通过 settings logs 查看进度")
		return nil
	},
}

var settingsLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "查看最近一次关系重建的日志",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		logs, err := app.settings.FetchLogs(cmd.Context())
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Println("（暂无日志）")
			return nil
		}
		for _, line := range logs {
			fmt.Println(line)
		}
		return nil
	},
}

var settingsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "导出比赛时间窗口为 iCalendar (.ics)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.settings.Load(cmd.Context()); err != nil {
			return err
		}

		req, err := app.settings.Settings()
		if err != nil {
			return err
		}

		fields := app.settings.Fields()
		siteName := fields.Values[form.KeyWebsiteName]
		if siteName == "" && app.branding != nil {
			// 设置里未填站点名时退回品牌缓存
			siteName, _ = app.branding.SiteName(cmd.Context())
		}
		comp := competitionFromRequest(req.Competition)
		buf, filename, err := app.exporter.ExportCompetitionCalendar(comp, siteName)
		if err != nil {
			return err
		}

		path := filepath.Join(app.cfg.Export.Dir, filename)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入导出文件失败: %w", err)
		}
		fmt.Printf("已导出: %s\n", path)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	settingsCmd.AddCommand(settingsRebuildCmd)
	settingsCmd.AddCommand(settingsLogsCmd)
	settingsCmd.AddCommand(settingsCalendarCmd)

	f := settingsEditCmd.Flags()
	f.String("app-key", "", "钉钉 AppKey")
	f.String("app-secret", "", "钉钉 AppSecret")
	f.String("agent-id", "", "钉钉 AgentID")
	f.String("corp-id", "", "钉钉 CorpID")
	f.String("site-name", "", "站点名称")
	f.String("icp-beian", "", "ICP 备案号")
	f.String("sec-beian", "", "公安备案号")
	f.String("domain", "", "站点域名")
	f.String("submission", "", `作品提交窗口，格式 "开始,结束"`)
	f.String("voting", "", `投票窗口，格式 "开始,结束"`)
	f.String("registration", "", `报名窗口，格式 "开始,结束"`)
	f.Int("max-registrations", 0, "每人最多报名项目数，0 表示不限制")
	f.Bool("dashboard", false, "是否启用大屏展示")
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	app, err := setupApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()
	if err := app.settings.Load(ctx); err != nil {
		return err
	}
	fields := app.settings.Fields()

	flags := cmd.Flags()
	textFlags := map[string]string{
		"app-key":    form.KeyDingTalkAppKey,
		"app-secret": form.KeyDingTalkAppSecret,
		"agent-id":   form.KeyDingTalkAgentID,
		"corp-id":    form.KeyDingTalkCorpID,
		"site-name":  form.KeyWebsiteName,
		"icp-beian":  form.KeyWebsiteICPBeian,
		"sec-beian":  form.KeyWebsitePublicSecBeian,
		"domain":     form.KeyWebsiteDomain,
	}
	for flag, key := range textFlags {
		if flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			fields.Values[key] = v
		}
	}

	rangeFlags := map[string]string{
		"submission":   form.KeySubmissionTime,
		"voting":       form.KeyVotingTime,
		"registration": form.KeyRegistrationTime,
	}
	for flag, key := range rangeFlags {
		if !flags.Changed(flag) {
			continue
		}
		v, _ := flags.GetString(flag)
		r, err := parseTimeRange(v)
		if err != nil {
			return fmt.Errorf("--%s %w", flag, err)
		}
		fields.Ranges[key] = r
	}

	if flags.Changed("max-registrations") {
		fields.MaxRegistrations, _ = flags.GetInt("max-registrations")
	}
	if flags.Changed("dashboard") {
		fields.DashboardEnabled, _ = flags.GetBool("dashboard")
	}

	if err := app.settings.Save(ctx); err != nil {
		return err
	}
	fmt.Println("系统设置已保存")
	return nil
}

// competitionFromRequest 将更新请求中的比赛分区还原为快照视图
func competitionFromRequest(comp *dto.UpdateCompetitionSettings) dto.CompetitionSettings {
	var out dto.CompetitionSettings
	if comp == nil {
		return out
	}
	get := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	out.SubmissionStartTime = get(comp.SubmissionStartTime)
	out.SubmissionEndTime = get(comp.SubmissionEndTime)
	out.VotingStartTime = get(comp.VotingStartTime)
	out.VotingEndTime = get(comp.VotingEndTime)
	out.RegistrationStartTime = get(comp.RegistrationStartTime)
	out.RegistrationEndTime = get(comp.RegistrationEndTime)
	if comp.MaxRegistrationsPerPerson != nil {
		out.MaxRegistrationsPerPerson = *comp.MaxRegistrationsPerPerson
	}
	return out
}

// parseTimeRange 解析 "开始,结束" 形式的时间窗口
func parseTimeRange(s string) (form.TimeRange, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return form.TimeRange{}, fmt.Errorf(`格式错误，应为 "开始,结束"`)
	}
	return form.TimeRange{
		Start: strings.TrimSpace(parts[0]),
		End:   strings.TrimSpace(parts[1]),
	}, nil
}

// printFields 渲染表单字段
func printFields(f *form.Fields) {
	fmt.Println("── 钉钉登录 ──")
	fmt.Printf("  AppKey:    %s\n", f.Values[form.KeyDingTalkAppKey])
	fmt.Printf("  AppSecret: %s\n", maskSecret(f.Values[form.KeyDingTalkAppSecret]))
	fmt.Printf("  AgentID:   %s\n", f.Values[form.KeyDingTalkAgentID])
	fmt.Printf("  CorpID:    %s\n", f.Values[form.KeyDingTalkCorpID])

	fmt.Println("── 站点信息 ──")
	fmt.Printf("  名称:     %s\n", f.Values[form.KeyWebsiteName])
	fmt.Printf("  域名:     %s\n", f.Values[form.KeyWebsiteDomain])
	fmt.Printf("  ICP 备案: %s\n", f.Values[form.KeyWebsiteICPBeian])
	fmt.Printf("  公安备案: %s\n", f.Values[form.KeyWebsitePublicSecBeian])

	fmt.Println("── 比赛时间 ──")
	printRange(f, form.KeySubmissionTime, "作品提交")
	printRange(f, form.KeyVotingTime, "投票")
	printRange(f, form.KeyRegistrationTime, "报名")
	if f.MaxRegistrations == 0 {
		fmt.Println("  每人报名上限: 不限制")
	} else {
		fmt.Printf("  每人报名上限: %d\n", f.MaxRegistrations)
	}

	fmt.Println("── 大屏展示 ──")
	fmt.Printf("  启用: %v\n", f.DashboardEnabled)

	fmt.Println("── 积分表 ──")
	printRows("团体", f.TeamRows)
	printRows("个人", f.IndividualRows)
}

func printRange(f *form.Fields, key, label string) {
	if r, ok := f.Ranges[key]; ok {
		fmt.Printf("  %s: %s ~ %s\n", label, r.Start, r.End)
	} else {
		fmt.Printf("  %s: 不限制\n", label)
	}
}

func printRows(label string, rows []form.PointsRow) {
	if len(rows) == 0 {
		fmt.Printf("  %s: （未设置）\n", label)
		return
	}
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Points == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("第%s名=%g分", row.Rank, *row.Points))
	}
	fmt.Printf("  %s: %s\n", label, strings.Join(parts, ", "))
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
