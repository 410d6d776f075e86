package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// eventsCmd 届次命令组
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "管理比赛届次",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出全部届次",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.events.Load(cmd.Context()); err != nil {
			return err
		}

		events, currentID := app.events.Events()
		if len(events) == 0 {
			fmt.Println("（暂无届次）")
			return nil
		}
		for _, e := range events {
			marker := "  "
			if e.ID == currentID {
				marker = "* " // 当前届次
			}
			fmt.Printf("%s%d\t%s\n", marker, e.ID, e.Name)
		}
		return nil
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create [名称]",
	Short: "创建届次",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if err := huh.NewInput().Title("届次名称").Value(&name).Run(); err != nil {
				return err
			}
		}

		if err := app.events.Load(cmd.Context()); err != nil {
			return err
		}
		event, err := app.events.Create(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Printf("已创建届次 %d（%s）\n", event.ID, event.Name)
		return nil
	},
}

var eventsRenameCmd = &cobra.Command{
	Use:   "rename <id> <新名称>",
	Short: "重命名届次",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := app.events.Load(ctx); err != nil {
			return err
		}
		if err := app.events.BeginEdit(id); err != nil {
			return err
		}
		if err := app.events.SaveEdit(ctx, args[1]); err != nil {
			app.events.CancelEdit()
			return err
		}
		fmt.Printf("届次 %d 已重命名为 %s\n", id, args[1])
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除届次（当前届次或仍被比赛项目引用的届次不可删除）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		id, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := app.events.Load(ctx); err != nil {
			return err
		}
		if err := app.events.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("届次 %d 已删除\n", id)
		return nil
	},
}

var eventsSwitchCmd = &cobra.Command{
	Use:   "switch [id]",
	Short: "切换当前届次（不带 id 时交互选择）",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		ctx := cmd.Context()
		if err := app.events.Load(ctx); err != nil {
			return err
		}

		var id int64
		if len(args) == 1 {
			var err error
			id, err = parseEventID(args[0])
			if err != nil {
				return err
			}
		} else {
			events, currentID := app.events.Events()
			options := make([]huh.Option[int64], 0, len(events))
			for _, e := range events {
				label := e.Name
				if e.ID == currentID {
					label += "（当前）"
				}
				options = append(options, huh.NewOption(label, e.ID))
			}
			id = currentID
			if err := huh.NewSelect[int64]().
				Title("选择当前届次").
				Options(options...).
				Value(&id).
				Run(); err != nil {
				return err
			}
		}

		if err := app.events.Select(ctx, id); err != nil {
			return err
		}

		_, currentID := app.events.Events()
		fmt.Printf("当前届次: %d\n", currentID)
		return nil
	},
}

var eventsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出届次与积分表为 Excel (.xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp()
		if err != nil {
			return err
		}
		defer app.close()

		ctx := cmd.Context()
		if err := app.events.Load(ctx); err != nil {
			return err
		}
		if err := app.settings.Load(ctx); err != nil {
			return err
		}

		req, err := app.settings.Settings()
		if err != nil {
			return err
		}

		events, currentID := app.events.Events()
		buf, filename, err := app.exporter.ExportEvents(events, currentID, *req.Scoring)
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
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsRenameCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	eventsCmd.AddCommand(eventsSwitchCmd)
	eventsCmd.AddCommand(eventsExportCmd)
}

// parseEventID 解析命令行传入的届次 ID
func parseEventID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("届次 ID 必须为正整数: %q", s)
	}
	return id, nil
}
