package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/form"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEvents     = errors.New("暂无届次可导出")
	ErrExportNoWindows    = errors.New("未设置任何比赛时间窗口")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const shanghaiTimezone = "Asia/Shanghai"

// Exporter 导出业务
//
// 届次与积分表导出为 Excel (.xlsx)，比赛时间窗口导出为 iCalendar (.ics)。
// 导出以 bytes.Buffer 返回，由调用方决定落盘位置。
type Exporter struct {
	logger *zap.Logger
}

// NewExporter 创建 Exporter 实例
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// ════════════════════════════════════════════════════════
// ExportEvents — 届次与积分表导出为 Excel
// ════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "届次"：ID / 名称 / 是否当前
//   - Sheet "团体积分" / "个人积分"：名次 / 得分，按名次升序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (e *Exporter) ExportEvents(events []dto.Event, currentID int64, scoring dto.ScoringSettings) (*bytes.Buffer, string, error) {
	if len(events) == 0 {
		return nil, "", ErrExportNoEvents
	}

	f := excelize.NewFile()
	defer f.Close()

	const eventSheet = "届次"
	f.SetSheetName("Sheet1", eventSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(eventSheet, "A1", "ID")
	f.SetCellValue(eventSheet, "B1", "名称")
	f.SetCellValue(eventSheet, "C1", "当前届次")
	f.SetCellStyle(eventSheet, "A1", "C1", headerStyle)

	for i, event := range events {
		row := i + 2
		f.SetCellValue(eventSheet, fmt.Sprintf("A%d", row), event.ID)
		f.SetCellValue(eventSheet, fmt.Sprintf("B%d", row), event.Name)
		if event.ID == currentID {
			f.SetCellValue(eventSheet, fmt.Sprintf("C%d", row), "是")
		}
	}

	e.writePointsSheet(f, headerStyle, "团体积分", scoring.TeamPointsMapping)
	e.writePointsSheet(f, headerStyle, "个人积分", scoring.IndividualPointsMapping)

	buf, err := f.WriteToBuffer()
	if err != nil {
		e.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("竞赛届次_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// writePointsSheet 写出一张积分表，行序按名次升序
func (e *Exporter) writePointsSheet(f *excelize.File, headerStyle int, sheet string, mapping map[string]float64) {
	f.NewSheet(sheet)
	f.SetCellValue(sheet, "A1", "名次")
	f.SetCellValue(sheet, "B1", "得分")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	for i, row := range form.MappingToRows(mapping) {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Rank)
		if row.Points != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), *row.Points)
		}
	}
}

// ════════════════════════════════════════════════════════
// ExportCompetitionCalendar — 比赛时间窗口导出为 iCalendar
// ════════════════════════════════════════════════════════
//
// 提交 / 投票 / 报名三个窗口各生成一条 VEVENT；
// 起止不完整的窗口视为"不限制"，跳过。

func (e *Exporter) ExportCompetitionCalendar(comp dto.CompetitionSettings, siteName string) (*bytes.Buffer, string, error) {
	loc, err := time.LoadLocation(shanghaiTimezone)
	if err != nil {
		loc = time.FixedZone("CST", 8*3600)
	}

	windows := []struct {
		name  string
		start string
		end   string
	}{
		{"作品提交", comp.SubmissionStartTime, comp.SubmissionEndTime},
		{"投票", comp.VotingStartTime, comp.VotingEndTime},
		{"报名", comp.RegistrationStartTime, comp.RegistrationEndTime},
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	added := 0
	for _, w := range windows {
		if w.start == "" || w.end == "" {
			continue
		}
		start, err := time.ParseInLocation(form.TimeLayout, w.start, loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q", form.ErrRangeInvalid, w.start)
		}
		end, err := time.ParseInLocation(form.TimeLayout, w.end, loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q", form.ErrRangeInvalid, w.end)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d@sports-meeting", w.name, start.Unix()))
		event.SetCreatedTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		summary := w.name
		if siteName != "" {
			summary = fmt.Sprintf("%s · %s", siteName, w.name)
		}
		event.SetSummary(summary)
		added++
	}

	if added == 0 {
		return nil, "", ErrExportNoWindows
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("比赛时间表_%s.ics", time.Now().Format("20060102"))
	return buf, filename, nil
}
