package form

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// ── 表单字段映射 ──
//
// 系统设置在服务端是嵌套 JSON，在表单里是扁平的点分路径键。
// ToFormFields / FromFormFields 是这对映射的唯一实现，双向往返有单元测试保证。
//
// 非对称合并语义（有意保留，勿"修复"）：
//   - 文本字段缺省时以空串整体覆盖服务端值
//   - 时间区间缺省时从请求中省略，服务端值保持不变（留空表示不限制时间）

// TimeLayout 时间字段的传输格式
const TimeLayout = "2006-01-02 15:04:05"

// 文本字段的点分路径键
const (
	KeyDingTalkAppKey    = "dingtalk.app_key"
	KeyDingTalkAppSecret = "dingtalk.app_secret"
	KeyDingTalkAgentID   = "dingtalk.agent_id"
	KeyDingTalkCorpID    = "dingtalk.corp_id"

	KeyWebsiteName           = "website.name"
	KeyWebsiteICPBeian       = "website.icp_beian"
	KeyWebsitePublicSecBeian = "website.public_sec_beian"
	KeyWebsiteDomain         = "website.domain"
)

// 时间区间键
const (
	KeySubmissionTime   = "competition.submission_time"
	KeyVotingTime       = "competition.voting_time"
	KeyRegistrationTime = "competition.registration_time"
)

// textKeys 全部文本字段键，FromFormFields 按此列表强制整体覆盖
var textKeys = []string{
	KeyDingTalkAppKey, KeyDingTalkAppSecret, KeyDingTalkAgentID, KeyDingTalkCorpID,
	KeyWebsiteName, KeyWebsiteICPBeian, KeyWebsitePublicSecBeian, KeyWebsiteDomain,
}

// rankPattern 名次标签：正整数，无前导零
var rankPattern = regexp.MustCompile(`^[1-9]\d*$`)

var (
	ErrRankInvalid  = errors.New("名次必须为不含前导零的正整数")
	ErrRangeInvalid = errors.New("时间格式必须为 YYYY-MM-DD HH:mm:ss")
)

// TimeRange 成对的起止时间，仅当两端都存在时才构造
type TimeRange struct {
	Start string
	End   string
}

// PointsRow 积分表的一行；Points 为 nil 表示该行未填写完整
type PointsRow struct {
	Rank   string
	Points *float64
}

// Fields 系统设置的表单视图
type Fields struct {
	Values           map[string]string    // 点分路径键 → 文本值
	Ranges           map[string]TimeRange // 时间区间键 → 区间；键不存在表示不限制
	MaxRegistrations int                  // 0 = 不限制
	DashboardEnabled bool
	TeamRows         []PointsRow
	IndividualRows   []PointsRow
}

// ToFormFields 将系统设置快照展平为表单字段
func ToFormFields(s *dto.SystemSettings) *Fields {
	f := &Fields{
		Values:           make(map[string]string, len(textKeys)),
		Ranges:           make(map[string]TimeRange, 3),
		MaxRegistrations: s.Competition.MaxRegistrationsPerPerson,
		DashboardEnabled: s.Dashboard.Enabled,
	}

	f.Values[KeyDingTalkAppKey] = s.DingTalk.AppKey
	f.Values[KeyDingTalkAppSecret] = s.DingTalk.AppSecret
	f.Values[KeyDingTalkAgentID] = s.DingTalk.AgentID
	f.Values[KeyDingTalkCorpID] = s.DingTalk.CorpID

	f.Values[KeyWebsiteName] = s.Website.Name
	f.Values[KeyWebsiteICPBeian] = s.Website.ICPBeian
	f.Values[KeyWebsitePublicSecBeian] = s.Website.PublicSecBeian
	f.Values[KeyWebsiteDomain] = s.Website.Domain

	setRange(f.Ranges, KeySubmissionTime, s.Competition.SubmissionStartTime, s.Competition.SubmissionEndTime)
	setRange(f.Ranges, KeyVotingTime, s.Competition.VotingStartTime, s.Competition.VotingEndTime)
	setRange(f.Ranges, KeyRegistrationTime, s.Competition.RegistrationStartTime, s.Competition.RegistrationEndTime)

	f.TeamRows = MappingToRows(s.Scoring.TeamPointsMapping)
	f.IndividualRows = MappingToRows(s.Scoring.IndividualPointsMapping)

	return f
}

// setRange 仅当起止都存在时才重建区间，否则视为"不限制"
func setRange(ranges map[string]TimeRange, key, start, end string) {
	if start == "" || end == "" {
		return
	}
	ranges[key] = TimeRange{Start: start, End: end}
}

// FromFormFields 将表单字段重新嵌套为更新请求
func FromFormFields(f *Fields) (*dto.UpdateSettingsRequest, error) {
	team, err := RowsToMapping(f.TeamRows)
	if err != nil {
		return nil, err
	}
	individual, err := RowsToMapping(f.IndividualRows)
	if err != nil {
		return nil, err
	}

	comp := &dto.UpdateCompetitionSettings{
		MaxRegistrationsPerPerson: &f.MaxRegistrations,
	}
	if err := applyRange(f.Ranges, KeySubmissionTime, &comp.SubmissionStartTime, &comp.SubmissionEndTime); err != nil {
		return nil, err
	}
	if err := applyRange(f.Ranges, KeyVotingTime, &comp.VotingStartTime, &comp.VotingEndTime); err != nil {
		return nil, err
	}
	if err := applyRange(f.Ranges, KeyRegistrationTime, &comp.RegistrationStartTime, &comp.RegistrationEndTime); err != nil {
		return nil, err
	}

	return &dto.UpdateSettingsRequest{
		DingTalk: &dto.DingTalkSettings{
			AppKey:    f.Values[KeyDingTalkAppKey],
			AppSecret: f.Values[KeyDingTalkAppSecret],
			AgentID:   f.Values[KeyDingTalkAgentID],
			CorpID:    f.Values[KeyDingTalkCorpID],
		},
		Website: &dto.WebsiteSettings{
			Name:           f.Values[KeyWebsiteName],
			ICPBeian:       f.Values[KeyWebsiteICPBeian],
			PublicSecBeian: f.Values[KeyWebsitePublicSecBeian],
			Domain:         f.Values[KeyWebsiteDomain],
		},
		Competition: comp,
		Dashboard:   &dto.DashboardSettings{Enabled: f.DashboardEnabled},
		Scoring: &dto.ScoringSettings{
			TeamPointsMapping:       team,
			IndividualPointsMapping: individual,
		},
	}, nil
}

// applyRange 校验并拆分区间；键不存在时两端保持 nil，即请求中省略
func applyRange(ranges map[string]TimeRange, key string, start, end **string) error {
	r, ok := ranges[key]
	if !ok {
		return nil
	}
	if _, err := time.Parse(TimeLayout, r.Start); err != nil {
		return fmt.Errorf("%w: %q", ErrRangeInvalid, r.Start)
	}
	if _, err := time.Parse(TimeLayout, r.End); err != nil {
		return fmt.Errorf("%w: %q", ErrRangeInvalid, r.End)
	}
	s, e := r.Start, r.End
	*start, *end = &s, &e
	return nil
}

// RowsToMapping 将积分行转换为名次 → 得分映射
// 名次或得分缺失的行被丢弃；同名次后写覆盖先写
func RowsToMapping(rows []PointsRow) (map[string]float64, error) {
	mapping := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row.Rank == "" || row.Points == nil {
			continue
		}
		if !rankPattern.MatchString(row.Rank) {
			return nil, fmt.Errorf("%w: %q", ErrRankInvalid, row.Rank)
		}
		mapping[row.Rank] = *row.Points
	}
	return mapping, nil
}

// MappingToRows 将名次 → 得分映射展开为行，按名次数值升序
// （对象本身无序，升序展示让表格稳定）
func MappingToRows(mapping map[string]float64) []PointsRow {
	rows := make([]PointsRow, 0, len(mapping))
	for rank, points := range mapping {
		p := points
		rows = append(rows, PointsRow{Rank: rank, Points: &p})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, aerr := strconv.Atoi(rows[i].Rank)
		b, berr := strconv.Atoi(rows[j].Rank)
		if aerr != nil || berr != nil {
			return rows[i].Rank < rows[j].Rank
		}
		return a < b
	})
	return rows
}
