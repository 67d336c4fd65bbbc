package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/geo"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// ── 测试辅助 ──

func newTestConfig() *config.Config {
	return &config.Config{
		Checkin: config.CheckinConfig{
			DefaultRadius: 200.0,
			WorkdayStart:  "09:00",
			WorkdayEnd:    "18:00",
			TotalWorkDays: 60,
			TotalWeeks:    12,
		},
	}
}

func setupTestCheckinService(at time.Time) (CheckinService, *testMocks) {
	repo, m := newTestRepo()
	svc := NewCheckinService(newTestConfig(), repo, zap.NewNop())
	svc.(*checkinService).now = func() time.Time { return at }
	return svc, m
}

// 岗位坐标东侧约 meters 米处的纬度偏移坐标
func offsetNorth(lat float64, meters float64) float64 {
	return lat + meters/111320.0
}

func seedApprovedInternship(m *testMocks) {
	seedStudent(m, "stu-1", "李明")
	seedTeacher(m, "tea-1")
	seedPosition(m, "pos-1", "tea-1", 3)
	seedApplication(m, "app-1", "stu-1", "pos-1", model.ApplicationApproved)
}

// ── CheckIn 测试 ──

func TestCheckinService_CheckIn_Normal(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   offsetNorth(p.Latitude, 100), // 距岗位约100米
		Longitude:  p.Longitude,
	}
	result, err := svc.CheckIn(context.Background(), req, "stu-1")
	if err != nil {
		t.Fatalf("CheckIn 应成功: %v", err)
	}
	if result.Status != model.CheckinNormal {
		t.Errorf("期望状态=normal，实际=%s", result.Status)
	}
	if result.Distance > 200 {
		t.Errorf("期望距离在半径内，实际=%.2f", result.Distance)
	}
	if result.LateMinutes != 0 {
		t.Errorf("正常签到不应有迟到分钟数，实际=%d", result.LateMinutes)
	}
	// 正常签到也应通知学生签到结果
	if m.messages.countByUser("stu-1") != 1 {
		t.Errorf("期望学生收到1条签到结果通知，实际=%d", m.messages.countByUser("stu-1"))
	}
	// 正常签到不应打扰发布者
	if m.messages.countByUser("tea-1") != 0 {
		t.Errorf("正常签到不应通知发布者，实际=%d", m.messages.countByUser("tea-1"))
	}
}

func TestCheckinService_CheckIn_OutOfRange(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   offsetNorth(p.Latitude, 250), // 距岗位约250米，超出200米半径
		Longitude:  p.Longitude,
	}
	_, err := svc.CheckIn(context.Background(), req, "stu-1")

	var outOfRange *OutOfRangeError
	if !errors.As(err, &outOfRange) {
		t.Fatalf("期望 OutOfRangeError，实际=%v", err)
	}
	if outOfRange.Allowed != 200 {
		t.Errorf("期望允许半径=200，实际=%g", outOfRange.Allowed)
	}
	if outOfRange.Distance <= 200 {
		t.Errorf("期望实际距离超出半径，实际=%.2f", outOfRange.Distance)
	}
	// 软失败：异常记录仍已落库并计入异常统计
	if len(m.checkins.checkins) != 1 {
		t.Fatalf("期望异常签到记录已持久化，实际记录数=%d", len(m.checkins.checkins))
	}
	record := m.checkins.checkins[0]
	if record.Status != model.CheckinAbnormal {
		t.Errorf("期望记录状态=abnormal，实际=%s", record.Status)
	}
	if record.AbnormalReason == nil {
		t.Error("异常记录应写入异常原因")
	}
	// 学生收到签到结果，发布者额外收到异常提醒
	if m.messages.countByUser("stu-1") != 1 {
		t.Errorf("期望学生收到1条签到结果通知，实际=%d", m.messages.countByUser("stu-1"))
	}
	if m.messages.countByUser("tea-1") != 1 {
		t.Errorf("期望发布者收到1条异常提醒，实际=%d", m.messages.countByUser("tea-1"))
	}
}

func TestCheckinService_CheckIn_BeforeWindow(t *testing.T) {
	at := time.Date(2026, 3, 2, 8, 59, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	}
	if _, err := svc.CheckIn(context.Background(), req, "stu-1"); !errors.Is(err, geo.ErrNotInWindow) {
		t.Fatalf("期望 ErrNotInWindow，实际=%v", err)
	}
	// 时段外拒绝不应产生任何记录或通知
	if len(m.checkins.checkins) != 0 {
		t.Errorf("时段外签到不应落库，实际记录数=%d", len(m.checkins.checkins))
	}
	if m.messages.countByUser("stu-1") != 0 {
		t.Errorf("时段外签到不应产生通知，实际=%d", m.messages.countByUser("stu-1"))
	}
}

func TestCheckinService_CheckIn_Late(t *testing.T) {
	at := time.Date(2026, 3, 2, 18, 5, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	}
	result, err := svc.CheckIn(context.Background(), req, "stu-1")
	if err != nil {
		t.Fatalf("迟到签到应成功落库: %v", err)
	}
	if result.Status != model.CheckinLate {
		t.Errorf("期望状态=late，实际=%s", result.Status)
	}
	if result.LateMinutes != 5 {
		t.Errorf("期望迟到5分钟，实际=%d", result.LateMinutes)
	}
	if m.messages.countByUser("stu-1") != 1 {
		t.Errorf("期望学生收到1条签到结果通知，实际=%d", m.messages.countByUser("stu-1"))
	}
}

func TestCheckinService_CheckIn_OutOfRangeBeatsLate(t *testing.T) {
	at := time.Date(2026, 3, 2, 18, 30, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   offsetNorth(p.Latitude, 300),
		Longitude:  p.Longitude,
	}
	_, err := svc.CheckIn(context.Background(), req, "stu-1")

	var outOfRange *OutOfRangeError
	if !errors.As(err, &outOfRange) {
		t.Fatalf("超范围且迟到时应按异常处理，实际=%v", err)
	}
	if m.checkins.checkins[0].Status != model.CheckinAbnormal {
		t.Errorf("期望记录状态=abnormal，实际=%s", m.checkins.checkins[0].Status)
	}
}

func TestCheckinService_CheckIn_NoApprovedApplication(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedStudent(m, "stu-1", "李明")
	seedTeacher(m, "tea-1")
	seedPosition(m, "pos-1", "tea-1", 3)
	// 申请还在 pending，不可签到
	seedApplication(m, "app-1", "stu-1", "pos-1", model.ApplicationPending)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	}
	if _, err := svc.CheckIn(context.Background(), req, "stu-1"); !errors.Is(err, ErrNoApprovedApplication) {
		t.Errorf("期望 ErrNoApprovedApplication，实际=%v", err)
	}
}

func TestCheckinService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	p := m.positions.positions["pos-1"]
	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
	}
	if _, err := svc.CheckIn(context.Background(), req, "stu-1"); err != nil {
		t.Fatalf("首次签到应成功: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), req, "stu-1"); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("期望 ErrAlreadyCheckedIn，实际=%v", err)
	}
}

func TestCheckinService_CheckIn_PositionRadiusOverride(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	// 岗位级半径500米覆盖全局默认200米
	radius := 500.0
	p := m.positions.positions["pos-1"]
	p.CheckinRadius = &radius

	req := &dto.CreateCheckinRequest{
		PositionID: "pos-1",
		Latitude:   offsetNorth(p.Latitude, 300),
		Longitude:  p.Longitude,
	}
	result, err := svc.CheckIn(context.Background(), req, "stu-1")
	if err != nil {
		t.Fatalf("岗位半径内签到应成功: %v", err)
	}
	if result.Status != model.CheckinNormal {
		t.Errorf("期望状态=normal，实际=%s", result.Status)
	}
}

// ── Statistics 测试 ──

func TestCheckinService_Statistics(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	svc, m := setupTestCheckinService(at)
	seedApprovedInternship(m)

	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.Local) }
	for d := 1; d <= 30; d++ {
		m.checkins.checkins = append(m.checkins.checkins, &model.Checkin{
			CheckinID: "c-normal", StudentID: "stu-1", PositionID: "pos-1",
			CheckinDate: day(d), Status: model.CheckinNormal,
		})
	}
	for d := 1; d <= 3; d++ {
		m.checkins.checkins = append(m.checkins.checkins, &model.Checkin{
			CheckinID: "c-abnormal", StudentID: "stu-1", PositionID: "pos-2",
			CheckinDate: day(d), Status: model.CheckinAbnormal,
		})
	}

	req := &dto.CheckinStatisticsRequest{}
	result, err := svc.Statistics(context.Background(), req, "stu-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("Statistics 应成功: %v", err)
	}
	if result.Total != 33 {
		t.Errorf("期望总签到数=33，实际=%d", result.Total)
	}
	if result.NormalCount != 30 {
		t.Errorf("期望正常签到数=30，实际=%d", result.NormalCount)
	}
	if result.AbnormalCount != 3 {
		t.Errorf("期望异常签到数=3，实际=%d", result.AbnormalCount)
	}
	// 30/60×100
	if result.AttendanceRate != 50.0 {
		t.Errorf("期望出勤率=50.0，实际=%.2f", result.AttendanceRate)
	}
}
