package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) UpdateCreditScore(_ context.Context, userID string, score float64) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.CreditScore = score
	return nil
}

type mockPositionRepo struct {
	positions map[string]*model.Position
	seq       int
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) Create(_ context.Context, position *model.Position) error {
	if position.PositionID == "" {
		m.seq++
		position.PositionID = fmt.Sprintf("position-%d", m.seq)
	}
	position.CreatedAt = time.Now()
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Position, error) {
	return m.GetByID(ctx, id)
}

func (m *mockPositionRepo) List(_ context.Context, filter repository.PositionFilter) ([]model.Position, int64, error) {
	var out []model.Position
	for _, p := range m.positions {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(p.Title, filter.Keyword) &&
			!strings.Contains(p.CompanyName, filter.Keyword) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPositionRepo) Update(_ context.Context, position *model.Position) error {
	if _, ok := m.positions[position.PositionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.positions[position.PositionID] = position
	return nil
}

func (m *mockPositionRepo) UpdatePlacement(_ context.Context, positionID string, placedCount int, status string) error {
	p, ok := m.positions[positionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PlacedCount = placedCount
	p.Status = status
	return nil
}

type mockApplicationRepo struct {
	applications map[string]*model.Application
	seq          int
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{applications: make(map[string]*model.Application)}
}

func (m *mockApplicationRepo) Create(_ context.Context, application *model.Application) error {
	for _, a := range m.applications {
		if a.StudentID == application.StudentID && a.PositionID == application.PositionID {
			return gorm.ErrDuplicatedKey
		}
	}
	if application.ApplicationID == "" {
		m.seq++
		application.ApplicationID = fmt.Sprintf("application-%d", m.seq)
	}
	application.CreatedAt = time.Now()
	m.applications[application.ApplicationID] = application
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	if a, ok := m.applications[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Application, error) {
	return m.GetByID(ctx, id)
}

func (m *mockApplicationRepo) ListByIDs(_ context.Context, ids []string) ([]model.Application, error) {
	var out []model.Application
	for _, id := range ids {
		if a, ok := m.applications[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) List(_ context.Context, filter repository.ApplicationFilter) ([]model.Application, int64, error) {
	var out []model.Application
	for _, a := range m.applications {
		if filter.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if filter.PositionID != "" && a.PositionID != filter.PositionID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *mockApplicationRepo) GetByStudentAndPosition(_ context.Context, studentID, positionID string) (*model.Application, error) {
	for _, a := range m.applications {
		if a.StudentID == studentID && a.PositionID == positionID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetApprovedByStudent(_ context.Context, studentID string) (*model.Application, error) {
	for _, a := range m.applications {
		if a.StudentID == studentID && a.Status == model.ApplicationApproved {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) CountApprovedByStudentExcluding(_ context.Context, studentID, excludeID string) (int64, error) {
	var count int64
	for _, a := range m.applications {
		if a.StudentID == studentID && a.Status == model.ApplicationApproved && a.ApplicationID != excludeID {
			count++
		}
	}
	return count, nil
}

func (m *mockApplicationRepo) UpdateReview(_ context.Context, application *model.Application) error {
	if _, ok := m.applications[application.ApplicationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.applications[application.ApplicationID] = application
	return nil
}

type mockCheckinRepo struct {
	checkins []*model.Checkin
	seq      int
}

func newMockCheckinRepo() *mockCheckinRepo {
	return &mockCheckinRepo{}
}

func (m *mockCheckinRepo) Create(_ context.Context, checkin *model.Checkin) error {
	for _, c := range m.checkins {
		if c.StudentID == checkin.StudentID &&
			c.PositionID == checkin.PositionID &&
			c.CheckinDate.Equal(checkin.CheckinDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if checkin.CheckinID == "" {
		m.seq++
		checkin.CheckinID = fmt.Sprintf("checkin-%d", m.seq)
	}
	checkin.CreatedAt = time.Now()
	m.checkins = append(m.checkins, checkin)
	return nil
}

func (m *mockCheckinRepo) GetByStudentPositionDate(_ context.Context, studentID, positionID string, date time.Time) (*model.Checkin, error) {
	for _, c := range m.checkins {
		if c.StudentID == studentID && c.PositionID == positionID && c.CheckinDate.Equal(date) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckinRepo) List(_ context.Context, filter repository.CheckinFilter) ([]model.Checkin, int64, error) {
	var out []model.Checkin
	for _, c := range m.checkins {
		if m.match(c, filter) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockCheckinRepo) Count(_ context.Context, filter repository.CheckinFilter) (int64, error) {
	var count int64
	for _, c := range m.checkins {
		if m.match(c, filter) {
			count++
		}
	}
	return count, nil
}

func (m *mockCheckinRepo) match(c *model.Checkin, filter repository.CheckinFilter) bool {
	if filter.StudentID != "" && c.StudentID != filter.StudentID {
		return false
	}
	if filter.PositionID != "" && c.PositionID != filter.PositionID {
		return false
	}
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.StartDate != nil && c.CheckinDate.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && c.CheckinDate.After(*filter.EndDate) {
		return false
	}
	return true
}

type mockWeeklyReportRepo struct {
	reports map[string]*model.WeeklyReport
	seq     int
}

func newMockWeeklyReportRepo() *mockWeeklyReportRepo {
	return &mockWeeklyReportRepo{reports: make(map[string]*model.WeeklyReport)}
}

func (m *mockWeeklyReportRepo) Create(_ context.Context, report *model.WeeklyReport) error {
	for _, r := range m.reports {
		if r.StudentID == report.StudentID &&
			r.PositionID == report.PositionID &&
			r.WeekNumber == report.WeekNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if report.ReportID == "" {
		m.seq++
		report.ReportID = fmt.Sprintf("report-%d", m.seq)
	}
	report.CreatedAt = time.Now()
	m.reports[report.ReportID] = report
	return nil
}

func (m *mockWeeklyReportRepo) GetByID(_ context.Context, id string) (*model.WeeklyReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyReportRepo) GetByStudentPositionWeek(_ context.Context, studentID, positionID string, weekNumber int) (*model.WeeklyReport, error) {
	for _, r := range m.reports {
		if r.StudentID == studentID && r.PositionID == positionID && r.WeekNumber == weekNumber {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyReportRepo) List(_ context.Context, filter repository.WeeklyReportFilter) ([]model.WeeklyReport, int64, error) {
	var out []model.WeeklyReport
	for _, r := range m.reports {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.PositionID != "" && r.PositionID != filter.PositionID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *mockWeeklyReportRepo) CountByStudentPosition(_ context.Context, studentID, positionID string) (int64, error) {
	var count int64
	for _, r := range m.reports {
		if r.StudentID == studentID && r.PositionID == positionID {
			count++
		}
	}
	return count, nil
}

func (m *mockWeeklyReportRepo) AvgScoreByStudentPosition(_ context.Context, studentID, positionID string) (float64, error) {
	var sum float64
	var n int
	for _, r := range m.reports {
		if r.StudentID == studentID && r.PositionID == positionID && r.Score != nil {
			sum += *r.Score
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (m *mockWeeklyReportRepo) UpdateReview(_ context.Context, report *model.WeeklyReport) error {
	if _, ok := m.reports[report.ReportID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.reports[report.ReportID] = report
	return nil
}

type mockMessageRepo struct {
	messages []*model.Message
	seq      int
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{}
}

func (m *mockMessageRepo) Create(_ context.Context, message *model.Message) error {
	if message.MessageID == "" {
		m.seq++
		message.MessageID = fmt.Sprintf("message-%d", m.seq)
	}
	message.CreatedAt = time.Now()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListByUser(_ context.Context, userID string, onlyUnread bool, offset, limit int) ([]model.Message, int64, error) {
	var out []model.Message
	for _, msg := range m.messages {
		if msg.UserID != userID {
			continue
		}
		if onlyUnread && msg.IsRead {
			continue
		}
		out = append(out, *msg)
	}
	return out, int64(len(out)), nil
}

func (m *mockMessageRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.UserID == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) MarkRead(_ context.Context, messageID, userID string) error {
	for _, msg := range m.messages {
		if msg.MessageID == messageID && msg.UserID == userID {
			msg.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, msg := range m.messages {
		if msg.UserID == userID {
			msg.IsRead = true
		}
	}
	return nil
}

// countByUser 测试辅助：某用户收到的消息数
func (m *mockMessageRepo) countByUser(userID string) int {
	n := 0
	for _, msg := range m.messages {
		if msg.UserID == userID {
			n++
		}
	}
	return n
}

// ── 测试夹具 ──

type testMocks struct {
	users        *mockUserRepo
	positions    *mockPositionRepo
	applications *mockApplicationRepo
	checkins     *mockCheckinRepo
	reports      *mockWeeklyReportRepo
	messages     *mockMessageRepo
}

func newTestRepo() (*repository.Repository, *testMocks) {
	m := &testMocks{
		users:        newMockUserRepo(),
		positions:    newMockPositionRepo(),
		applications: newMockApplicationRepo(),
		checkins:     newMockCheckinRepo(),
		reports:      newMockWeeklyReportRepo(),
		messages:     newMockMessageRepo(),
	}
	repo := &repository.Repository{
		User:         m.users,
		Position:     m.positions,
		Application:  m.applications,
		Checkin:      m.checkins,
		WeeklyReport: m.reports,
		Message:      m.messages,
	}
	return repo, m
}
