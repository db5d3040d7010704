package handler

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todoapp/internal/model"
	"todoapp/internal/repository"
	"todoapp/internal/session"
	"todoapp/internal/utils"
)

// fakeState is an in-memory stand-in for the MySQL schema.  The three
// store fakes below share one instance so handler tests can observe
// cross-store effects such as a category delete detaching tasks.
type fakeState struct {
	mu sync.Mutex

	nextUserID     uint64
	nextCategoryID uint64
	nextTaskID     uint64

	users      map[uint64]model.User
	categories map[uint64]model.Category
	tasks      map[uint64]model.Task
}

func newFakeState() *fakeState {
	return &fakeState{
		nextUserID:     1,
		nextCategoryID: 1,
		nextTaskID:     1,
		users:          make(map[uint64]model.User),
		categories:     make(map[uint64]model.Category),
		tasks:          make(map[uint64]model.Task),
	}
}

func (st *fakeState) checkCategoryLocked(userID uint64, categoryID *uint64) error {
	if categoryID == nil {
		return nil
	}
	c, ok := st.categories[*categoryID]
	if !ok || c.UserID != userID {
		return repository.ErrUnknownCategory
	}
	return nil
}

// ----- UserStore fake -----

type fakeUserStore struct{ st *fakeState }

func (f *fakeUserStore) Create(_ context.Context, username, password string) (uint64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	for _, u := range f.st.users {
		if u.Username == username {
			return 0, repository.ErrUsernameTaken
		}
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	id := f.st.nextUserID
	f.st.nextUserID++
	f.st.users[id] = model.User{ID: id, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	for _, u := range f.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

// ----- CategoryStore fake -----

type fakeCategoryStore struct{ st *fakeState }

func (f *fakeCategoryStore) ListByUser(_ context.Context, userID uint64) ([]model.Category, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	out := make([]model.Category, 0)
	for _, c := range f.st.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, userID uint64, name string) (uint64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	id := f.st.nextCategoryID
	f.st.nextCategoryID++
	f.st.categories[id] = model.Category{ID: id, UserID: userID, Name: name, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, userID, categoryID uint64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	c, ok := f.st.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil
	}
	for id, t := range f.st.tasks {
		if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID {
			t.CategoryID = nil
			t.CategoryName = nil
			f.st.tasks[id] = t
		}
	}
	delete(f.st.categories, categoryID)
	return nil
}

// ----- TaskStore fake -----

type fakeTaskStore struct{ st *fakeState }

func (f *fakeTaskStore) ListByUser(_ context.Context, userID uint64, status string) ([]model.Task, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	out := make([]model.Task, 0)
	for _, t := range f.st.tasks {
		if t.UserID != userID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if t.CategoryID != nil {
			if c, ok := f.st.categories[*t.CategoryID]; ok {
				name := c.Name
				t.CategoryName = &name
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return taskLess(out[i], out[j]) })
	return out, nil
}

// taskLess mirrors the repository ORDER BY: position, completed last,
// dateless last, earlier dates first, higher priority first, newest first.
func taskLess(a, b model.Task) bool {
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	ac, bc := a.Status == model.StatusCompleted, b.Status == model.StatusCompleted
	if ac != bc {
		return !ac
	}
	an, bn := a.DueDate == nil, b.DueDate == nil
	if an != bn {
		return !an
	}
	if !an && !a.DueDate.Equal(b.DueDate.Time) {
		return a.DueDate.Before(b.DueDate.Time)
	}
	pr := map[string]int{model.PriorityHigh: 1, model.PriorityMedium: 2, model.PriorityLow: 3}
	if pr[a.Priority] != pr[b.Priority] {
		return pr[a.Priority] < pr[b.Priority]
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (f *fakeTaskStore) Create(_ context.Context, userID uint64, d model.TaskDraft) (uint64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	if err := f.st.checkCategoryLocked(userID, d.CategoryID); err != nil {
		return 0, err
	}
	pos := 0
	for _, t := range f.st.tasks {
		if t.UserID == userID && t.Position+1 > pos {
			pos = t.Position + 1
		}
	}
	id := f.st.nextTaskID
	f.st.nextTaskID++
	f.st.tasks[id] = model.Task{
		ID:         id,
		UserID:     userID,
		Title:      d.Title,
		DueDate:    d.DueDate,
		Priority:   d.Priority,
		Status:     model.StatusPending,
		CategoryID: d.CategoryID,
		Position:   pos,
		CreatedAt:  time.Now(),
	}
	return id, nil
}

func (f *fakeTaskStore) Update(_ context.Context, userID, taskID uint64, d model.TaskDraft) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	if err := f.st.checkCategoryLocked(userID, d.CategoryID); err != nil {
		return err
	}
	t, ok := f.st.tasks[taskID]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	t.Title = d.Title
	t.DueDate = d.DueDate
	t.Priority = d.Priority
	t.CategoryID = d.CategoryID
	f.st.tasks[taskID] = t
	return nil
}

func (f *fakeTaskStore) SetStatus(_ context.Context, userID, taskID uint64, status string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	t, ok := f.st.tasks[taskID]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	t.Status = status
	f.st.tasks[taskID] = t
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, userID, taskID uint64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	if t, ok := f.st.tasks[taskID]; ok && t.UserID == userID {
		delete(f.st.tasks, taskID)
	}
	return nil
}

func (f *fakeTaskStore) Reorder(_ context.Context, userID uint64, ids []uint64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()

	for i, id := range ids {
		if t, ok := f.st.tasks[id]; ok && t.UserID == userID {
			t.Position = i
			f.st.tasks[id] = t
		}
	}
	return nil
}

// ----- session.Store fake -----

// fakeSessionStore keeps sessions in a map keyed by the raw token.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, sess session.Session) (string, error) {
	token, err := session.NewToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sess
	return token, nil
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Compile-time interface checks.
var (
	_ UserStore     = (*fakeUserStore)(nil)
	_ CategoryStore = (*fakeCategoryStore)(nil)
	_ TaskStore     = (*fakeTaskStore)(nil)
	_ session.Store = (*fakeSessionStore)(nil)
)
