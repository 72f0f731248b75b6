package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tanker-ledger/internal/model"
	"tanker-ledger/internal/repository"
	pkgerrors "tanker-ledger/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User // key: user_id
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LabelRepository ──

type mockLabelRepo struct {
	labels map[string]*model.Label // key: label_id
	err    error                   // 非 nil 时所有读操作返回该错误
}

func newMockLabelRepo() *mockLabelRepo {
	return &mockLabelRepo{labels: make(map[string]*model.Label)}
}

func (m *mockLabelRepo) Create(_ context.Context, label *model.Label) error {
	if label.LabelID == "" {
		label.LabelID = fmt.Sprintf("label-%d", len(m.labels)+1)
	}
	if label.Version == 0 {
		label.Version = 1
	}
	m.labels[label.LabelID] = label
	return nil
}

func (m *mockLabelRepo) GetByID(_ context.Context, userID, labelID string) (*model.Label, error) {
	if m.err != nil {
		return nil, m.err
	}
	l, ok := m.labels[labelID]
	if !ok || l.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockLabelRepo) List(_ context.Context, userID, search string) ([]model.Label, error) {
	var result []model.Label
	for _, l := range m.labels {
		if l.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(search)) {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsPinned != result[j].IsPinned {
			return result[i].IsPinned
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockLabelRepo) Update(_ context.Context, label *model.Label) error {
	cur, ok := m.labels[label.LabelID]
	if !ok || cur.UserID != label.UserID || cur.Version != label.Version {
		return pkgerrors.ErrOptimisticLock
	}
	label.Version++
	cp := *label
	m.labels[label.LabelID] = &cp
	return nil
}

func (m *mockLabelRepo) SetPinned(_ context.Context, userID, labelID string, pinned bool) error {
	l, ok := m.labels[labelID]
	if !ok || l.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	l.IsPinned = pinned
	return nil
}

func (m *mockLabelRepo) SetDieselAverage(_ context.Context, userID, labelID string, avg decimal.Decimal) error {
	l, ok := m.labels[labelID]
	if !ok || l.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	l.DieselAverage = avg
	return nil
}

func (m *mockLabelRepo) Delete(_ context.Context, userID, labelID string) error {
	l, ok := m.labels[labelID]
	if !ok || l.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(m.labels, labelID)
	return nil
}

// ── Mock EntryRepository ──

type mockEntryRepo struct {
	mu      sync.Mutex
	entries map[string]*model.TankerEntry // key: entry_id
	seq     int
	err     error
}

func newMockEntryRepo() *mockEntryRepo {
	return &mockEntryRepo{entries: make(map[string]*model.TankerEntry)}
}

func (m *mockEntryRepo) ListRange(_ context.Context, userID, labelID string, from, to time.Time) ([]model.TankerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var result []model.TankerEntry
	for _, e := range m.entries {
		if e.UserID != userID || e.LabelID != labelID {
			continue
		}
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].EntryID < result[j].EntryID
	})
	return result, nil
}

// SaveDay 模拟事务：先检查全部更新目标存在，再统一写入
func (m *mockEntryRepo) SaveDay(_ context.Context, userID, labelID string, date time.Time, entries []*model.TankerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if e.EntryID == "" {
			continue
		}
		cur, ok := m.entries[e.EntryID]
		if !ok || cur.UserID != userID || cur.LabelID != labelID {
			return gorm.ErrRecordNotFound
		}
	}
	for _, e := range entries {
		if e.EntryID == "" {
			m.seq++
			e.EntryID = fmt.Sprintf("entry-%03d", m.seq)
		}
		e.UserID = userID
		e.LabelID = labelID
		e.Date = date
		cp := *e
		m.entries[e.EntryID] = &cp
	}
	return nil
}

func (m *mockEntryRepo) Delete(_ context.Context, userID, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, entryID)
	return nil
}

// put 直接写入一条已落库的条目
func (m *mockEntryRepo) put(e model.TankerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.EntryID == "" {
		m.seq++
		e.EntryID = fmt.Sprintf("entry-%03d", m.seq)
	}
	m.entries[e.EntryID] = &e
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	if ttl > 0 {
		m.revoked[jti] = ttl
	}
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── Mock Sequencer ──

type failingSequencer struct{}

func (failingSequencer) Advance(context.Context, string, int64) (bool, error) {
	return false, errors.New("redis unavailable")
}

// ── 测试辅助 ──

type testRepos struct {
	repo   *repository.Repository
	users  *mockUserRepo
	labels *mockLabelRepo
	rows   *mockEntryRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		users:  newMockUserRepo(),
		labels: newMockLabelRepo(),
		rows:   newMockEntryRepo(),
	}
	r.repo = &repository.Repository{User: r.users, Label: r.labels, Entry: r.rows}
	return r
}

// addLabel 预置一个标签
func (r *testRepos) addLabel(userID, name string, driver bool) *model.Label {
	l := &model.Label{UserID: userID, Name: name, Color: model.DefaultLabelColor, IsDriverStatus: driver}
	_ = r.labels.Create(context.Background(), l)
	return l
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
