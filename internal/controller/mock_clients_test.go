package controller

import (
	"context"
	"sync"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/client"
	"github.com/itsHenry35/sports-meeting-system-sub001/internal/dto"
)

// ── Mock SettingsAPI ──

type mockSettingsAPI struct {
	mu       sync.Mutex
	settings *dto.SystemSettings
	logs     []string

	getErr     error
	updateErr  error
	rebuildErr error

	getCalls     int
	updates      []*dto.UpdateSettingsRequest
	rebuildCalls int

	// getHook 非 nil 时在每次 GetSettings 内调用，可用于阻塞或替换返回值
	getHook func(call int) (*dto.SystemSettings, error)
}

func newMockSettingsAPI() *mockSettingsAPI {
	return &mockSettingsAPI{
		settings: &dto.SystemSettings{
			Website: dto.WebsiteSettings{Name: "阳光中学运动会", Domain: "sports.example.cn"},
			Competition: dto.CompetitionSettings{
				SubmissionStartTime: "2024-01-01 00:00:00",
				SubmissionEndTime:   "2024-01-10 00:00:00",
			},
			Scoring: dto.ScoringSettings{
				TeamPointsMapping:       map[string]float64{"1": 10, "2": 5},
				IndividualPointsMapping: map[string]float64{"1": 7},
			},
		},
	}
}

func (m *mockSettingsAPI) GetSettings(_ context.Context) (*dto.SystemSettings, error) {
	m.mu.Lock()
	m.getCalls++
	call := m.getCalls
	hook := m.getHook
	settings, err := m.settings, m.getErr
	m.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	copied := *settings
	return &copied, nil
}

func (m *mockSettingsAPI) UpdateSettings(_ context.Context, req *dto.UpdateSettingsRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, req)
	return nil
}

func (m *mockSettingsAPI) RebuildMapping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuildCalls++
	return m.rebuildErr
}

func (m *mockSettingsAPI) GetMappingLogs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs, nil
}

// ── Mock EventAPI ──
//
// 模拟服务端行为：切换校验存在性、删除移除记录，以便控制器测试
// 能观察"失败后指针不变"这类端到端性质。

type mockEventAPI struct {
	mu        sync.Mutex
	events    []dto.Event
	currentID int64
	nextID    int64

	deleteErr error // 注入引用完整性等服务端错误

	listCalls   int
	createCalls []string
	updateCalls []int64
	deleteCalls []int64
	switchCalls []int64
}

func newMockEventAPI() *mockEventAPI {
	return &mockEventAPI{
		events: []dto.Event{
			{ID: 1, Name: "第一届"},
			{ID: 2, Name: "第二届"},
		},
		currentID: 1,
		nextID:    3,
	}
}

func (m *mockEventAPI) ListEvents(_ context.Context) (*dto.EventListResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	list := make([]dto.Event, len(m.events))
	copy(list, m.events)
	return &dto.EventListResponse{List: list, CurrentEventID: m.currentID}, nil
}

func (m *mockEventAPI) CreateEvent(_ context.Context, name string) (*dto.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls = append(m.createCalls, name)
	event := dto.Event{ID: m.nextID, Name: name}
	m.nextID++
	m.events = append(m.events, event)
	return &event, nil
}

func (m *mockEventAPI) UpdateEvent(_ context.Context, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = append(m.updateCalls, id)
	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Name = name
			return nil
		}
	}
	return &client.APIError{Code: 40401, Message: "届次不存在"}
}

func (m *mockEventAPI) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.events {
		if m.events[i].ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return &client.APIError{Code: 40401, Message: "届次不存在"}
}

func (m *mockEventAPI) SwitchEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switchCalls = append(m.switchCalls, id)
	for _, e := range m.events {
		if e.ID == id {
			m.currentID = id
			return nil
		}
	}
	return &client.APIError{Code: 40401, Message: "届次不存在"}
}

// ── Mock BrandingRefresher ──

type mockBranding struct {
	mu        sync.Mutex
	refreshed []dto.WebsiteSettings
}

func (m *mockBranding) Refresh(_ context.Context, site dto.WebsiteSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed = append(m.refreshed, site)
	return nil
}
