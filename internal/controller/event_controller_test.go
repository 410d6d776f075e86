package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/internal/client"
)

// ── 测试辅助 ──

func setupTestEventController(t *testing.T) (*EventListController, *mockEventAPI) {
	t.Helper()
	api := newMockEventAPI()
	ctrl := NewEventListController(api, alwaysConfirm, zap.NewNop())
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	return ctrl, api
}

// ── 行编辑状态机测试 ──

func TestEventListController_SingleEditLock(t *testing.T) {
	ctrl, _ := setupTestEventController(t)

	if err := ctrl.BeginEdit(1); err != nil {
		t.Fatalf("进入编辑态应成功: %v", err)
	}
	if err := ctrl.BeginEdit(2); !errors.Is(err, ErrRowEditing) {
		t.Errorf("已有行编辑时应拒绝，实际: %v", err)
	}

	ctrl.CancelEdit()
	if err := ctrl.BeginEdit(2); err != nil {
		t.Errorf("取消后应可编辑其他行: %v", err)
	}
}

func TestEventListController_BeginEdit_UnknownID(t *testing.T) {
	ctrl, _ := setupTestEventController(t)

	if err := ctrl.BeginEdit(99); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("期望 ErrEventNotFound，实际: %v", err)
	}
}

func TestEventListController_SaveEdit(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.BeginEdit(2); err != nil {
		t.Fatalf("进入编辑态应成功: %v", err)
	}
	if err := ctrl.SaveEdit(context.Background(), "第二届（秋季）"); err != nil {
		t.Fatalf("SaveEdit 应成功: %v", err)
	}

	if ctrl.EditingID() != 0 {
		t.Error("保存后应退出编辑态")
	}
	events, _ := ctrl.Events()
	for _, e := range events {
		if e.ID == 2 && e.Name != "第二届（秋季）" {
			t.Errorf("重命名未生效: %s", e.Name)
		}
	}
	if len(api.updateCalls) != 1 || api.updateCalls[0] != 2 {
		t.Errorf("期望恰好一次重命名请求，实际: %v", api.updateCalls)
	}
}

func TestEventListController_SaveEdit_NotEditing(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.SaveEdit(context.Background(), "任意"); !errors.Is(err, ErrNotEditing) {
		t.Errorf("期望 ErrNotEditing，实际: %v", err)
	}
	if len(api.updateCalls) != 0 {
		t.Error("无编辑行时不应发起请求")
	}
}

func TestEventListController_CancelEdit_NoRequest(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.BeginEdit(1); err != nil {
		t.Fatalf("进入编辑态应成功: %v", err)
	}
	ctrl.CancelEdit()

	if len(api.updateCalls) != 0 {
		t.Error("取消编辑不应发起任何请求")
	}
	if ctrl.EditingID() != 0 {
		t.Error("取消后应退出编辑态")
	}
}

// ── 创建测试 ──

func TestEventListController_Create(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	event, err := ctrl.Create(context.Background(), "第三届")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if event.ID != 3 || event.Name != "第三届" {
		t.Errorf("创建结果不符: %+v", event)
	}

	events, _ := ctrl.Events()
	if len(events) != 3 {
		t.Errorf("创建后应重载列表，实际 %d 行", len(events))
	}
	if len(api.createCalls) != 1 {
		t.Errorf("期望恰好一次创建请求，实际: %v", api.createCalls)
	}
}

func TestEventListController_Create_TooLongName_NoRequest(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	name := strings.Repeat("届", 101)
	_, err := ctrl.Create(context.Background(), name)
	if !errors.Is(err, client.ErrEventNameTooLong) {
		t.Errorf("期望 ErrEventNameTooLong，实际: %v", err)
	}
	if len(api.createCalls) != 0 {
		t.Error("名称超长时不应发起任何请求")
	}
}

func TestEventListController_Create_EmptyName_NoRequest(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	_, err := ctrl.Create(context.Background(), "")
	if !errors.Is(err, client.ErrEventNameEmpty) {
		t.Errorf("期望 ErrEventNameEmpty，实际: %v", err)
	}
	if len(api.createCalls) != 0 {
		t.Error("名称为空时不应发起任何请求")
	}
}

// ── 删除测试 ──

func TestEventListController_Delete_CurrentRejected(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	err := ctrl.Delete(context.Background(), 1) // 1 为当前届次
	if !errors.Is(err, ErrDeleteCurrent) {
		t.Errorf("期望 ErrDeleteCurrent，实际: %v", err)
	}
	if len(api.deleteCalls) != 0 {
		t.Error("删除当前届次应在发起请求前被拦截")
	}
	events, _ := ctrl.Events()
	if len(events) != 2 {
		t.Errorf("届次列表不应变化，实际 %d 行", len(events))
	}
}

func TestEventListController_Delete_WhileEditingRejected(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.BeginEdit(2); err != nil {
		t.Fatalf("进入编辑态应成功: %v", err)
	}
	if err := ctrl.Delete(context.Background(), 2); !errors.Is(err, ErrRowEditing) {
		t.Errorf("期望 ErrRowEditing，实际: %v", err)
	}
	if len(api.deleteCalls) != 0 {
		t.Error("有行编辑时不应发起删除请求")
	}
}

func TestEventListController_Delete_ServerErrorSurfacedVerbatim(t *testing.T) {
	ctrl, api := setupTestEventController(t)
	api.deleteErr = &client.APIError{Code: 40901, Message: "该届次下仍有比赛项目，无法删除"}

	err := ctrl.Delete(context.Background(), 2)
	if err == nil || err.Error() != "该届次下仍有比赛项目，无法删除" {
		t.Errorf("服务端错误信息应原样透出，实际: %v", err)
	}
}

func TestEventListController_Delete_Success(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	events, _ := ctrl.Events()
	if len(events) != 1 {
		t.Errorf("删除后应重载列表，实际 %d 行", len(events))
	}
	if len(api.deleteCalls) != 1 || api.deleteCalls[0] != 2 {
		t.Errorf("期望恰好一次删除请求，实际: %v", api.deleteCalls)
	}
}

func TestEventListController_Delete_Cancelled(t *testing.T) {
	api := newMockEventAPI()
	ctrl := NewEventListController(api, neverConfirm, zap.NewNop())
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}

	err := ctrl.Delete(context.Background(), 2)
	if !errors.Is(err, ErrDeleteCancelled) {
		t.Errorf("期望 ErrDeleteCancelled，实际: %v", err)
	}
	if len(api.deleteCalls) != 0 {
		t.Error("取消确认后不应发起删除请求")
	}
}

// ── 切换当前届次测试 ──

func TestEventListController_Select_OtherSwitchesOnce(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.Select(context.Background(), 2); err != nil {
		t.Fatalf("Select 应成功: %v", err)
	}

	if len(api.switchCalls) != 1 || api.switchCalls[0] != 2 {
		t.Errorf("期望恰好一次切换请求 switchEvent(2)，实际: %v", api.switchCalls)
	}
	_, currentID := ctrl.Events()
	if currentID != 2 {
		t.Errorf("切换后当前届次应为 2，实际=%d", currentID)
	}
	// 切换后重载列表
	if api.listCalls != 2 {
		t.Errorf("期望切换后重载（共 2 次 ListEvents），实际 %d 次", api.listCalls)
	}
}

func TestEventListController_Select_CurrentIsNoop(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	if err := ctrl.Select(context.Background(), 1); err != nil {
		t.Fatalf("选中当前届次应为空操作: %v", err)
	}
	if len(api.switchCalls) != 0 {
		t.Errorf("空操作不应发起切换请求，实际: %v", api.switchCalls)
	}
}

func TestEventListController_Select_UnknownIDFails(t *testing.T) {
	ctrl, api := setupTestEventController(t)

	err := ctrl.Select(context.Background(), 99)
	if err == nil {
		t.Fatal("切换到不存在的届次应失败")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("期望 APIError，实际: %v", err)
	}
	_, currentID := ctrl.Events()
	if currentID != 1 {
		t.Errorf("失败后当前届次应保持 1，实际=%d", currentID)
	}
	if api.currentID != 1 {
		t.Errorf("服务端当前届次应保持 1，实际=%d", api.currentID)
	}
}
