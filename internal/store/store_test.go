package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hucreative-studio/internal/model"
	"github.com/mmeshcher/hucreative-studio/internal/repository"
	"github.com/mmeshcher/hucreative-studio/internal/seed"
)

var testNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testSeed(t *testing.T) Seed {
	t.Helper()
	ds, err := seed.Load()
	require.NoError(t, err)
	return Seed{Projects: ds.Projects, Messages: ds.Messages, Orders: ds.Orders}
}

func newTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	s, err := New(context.Background(), kv, testSeed(t), WithClock(fixedClock))
	require.NoError(t, err)
	return s
}

func mustProjectDraft(t *testing.T, title string) model.ProjectDraft {
	t.Helper()
	d, err := model.NewProjectDraft(title, model.CategoryLogo, "https://example.com/a.png", "", []string{"Figma"}, "2024")
	require.NoError(t, err)
	return d
}

func TestNew_SeedsWhenKeysAbsent(t *testing.T) {
	s := newTestStore(t, repository.NewMemoryRepository())
	sd := testSeed(t)

	assert.Equal(t, sd.Projects, s.Projects())
	assert.Equal(t, sd.Messages, s.Messages())
	assert.Equal(t, sd.Orders, s.Orders())
}

func TestNew_RestoresPersistedBlobs(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()

	projects := `[{"id":"9","title":"A & B <studio>","category":"Logo","image":"data:image/png;base64,iVBOR=","description":"","tools":["Figma","Illustrator"],"year":"Result: ₹10L → 2x"}]`
	messages := `[{"id":"m9","name":"Asha","email":"asha@example.com","message":"hi","date":"2025-01-02","read":true}]`
	orders := `[{"id":"o9","clientName":"Asha","serviceType":"Starter Plan","status":"Cancelled","amount":9999,"date":"2025-01-02","notes":"Mobile: 9876543210"},{"id":"o8","clientName":"Ravi","serviceType":"Growth Plan","status":"Pending","amount":0,"date":"2025-01-01"}]`

	require.NoError(t, kv.Set(ctx, ProjectsKey, projects))
	require.NoError(t, kv.Set(ctx, MessagesKey, messages))
	require.NoError(t, kv.Set(ctx, OrdersKey, orders))

	s := newTestStore(t, kv)

	require.Len(t, s.Projects(), 1)
	assert.Equal(t, "A & B <studio>", s.Projects()[0].Title)
	require.Len(t, s.Orders(), 2)
	assert.Empty(t, s.Orders()[1].Notes)

	// no-op mutations rewrite every collection; the blobs must come back byte-for-byte
	require.NoError(t, s.DeleteProject(ctx, "absent"))
	require.NoError(t, s.MarkMessageRead(ctx, "absent"))
	require.NoError(t, s.UpdateOrderStatus(ctx, "absent", model.OrderStatusCompleted))

	for key, want := range map[string]string{ProjectsKey: projects, MessagesKey: messages, OrdersKey: orders} {
		got, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got, key)
	}
}

func TestNew_CorruptBlob(t *testing.T) {
	kv := repository.NewMemoryRepository()
	require.NoError(t, kv.Set(context.Background(), OrdersKey, "{not json"))

	_, err := New(context.Background(), kv, testSeed(t))
	assert.Error(t, err)
}

func TestReload_ReproducesCollections(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	s := newTestStore(t, kv)

	_, err := s.AddProject(ctx, mustProjectDraft(t, "New Logo"))
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, model.NewMessageDraft("Asha", "asha@example.com", "hello"))
	require.NoError(t, err)
	od, err := model.NewOrderDraft("Asha", "Starter Plan", model.OrderStatusPending, 9999, "")
	require.NoError(t, err)
	_, err = s.AddOrder(ctx, od)
	require.NoError(t, err)

	reloaded := newTestStore(t, kv)
	assert.Equal(t, s.Projects(), reloaded.Projects())
	assert.Equal(t, s.Messages(), reloaded.Messages())
	assert.Equal(t, s.Orders(), reloaded.Orders())
}

func TestAddProject_DistinctIDsAndPrepend(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	seen := make(map[string]bool)
	for _, p := range s.Projects() {
		seen[p.ID] = true
	}

	for i := 0; i < 50; i++ {
		p, err := s.AddProject(ctx, mustProjectDraft(t, fmt.Sprintf("project %d", i)))
		require.NoError(t, err)
		require.NotEmpty(t, p.ID)
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true

		assert.Equal(t, p.ID, s.Projects()[0].ID)
	}
	assert.Len(t, s.Projects(), 56)
}

func TestAddProject_AvoidsExistingID(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	taken := fmt.Sprintf(`[{"id":"%d","title":"","category":"Logo","image":"","description":"","tools":[],"year":""}]`, testNow.UnixMilli())
	require.NoError(t, kv.Set(ctx, ProjectsKey, taken))

	s := newTestStore(t, kv)
	p, err := s.AddProject(ctx, mustProjectDraft(t, "second"))
	require.NoError(t, err)
	assert.NotEqual(t, fmt.Sprint(testNow.UnixMilli()), p.ID)
}

func TestAddProject_AcceptsEmptyFields(t *testing.T) {
	s := newTestStore(t, repository.NewMemoryRepository())

	d, err := model.NewProjectDraft("", model.CategoryPoster, "", "", nil, "")
	require.NoError(t, err)

	p, err := s.AddProject(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, p.Title)
	assert.NotNil(t, p.Tools)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	before := s.Projects()
	require.NoError(t, s.UpdateProject(ctx, model.Project{ID: "missing", Title: "ghost", Category: model.CategoryLogo}))
	assert.Equal(t, before, s.Projects())

	p, ok := s.Project("3")
	require.True(t, ok)
	p.Title = "Himalaya Treks 2"
	p.Tools = []string{"Photoshop"}
	require.NoError(t, s.UpdateProject(ctx, p))

	got, ok := s.Project("3")
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Len(t, s.Projects(), len(before))
}

func TestDeleteProject_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	require.NoError(t, s.DeleteProject(ctx, "2"))
	after := s.Projects()
	require.NoError(t, s.DeleteProject(ctx, "2"))

	assert.Equal(t, after, s.Projects())
	_, ok := s.Project("2")
	assert.False(t, ok)
	assert.Len(t, after, 5)
}

func TestProjects_ReturnsCopies(t *testing.T) {
	s := newTestStore(t, repository.NewMemoryRepository())

	ps := s.Projects()
	ps[0].Title = "mutated"
	ps[0].Tools[0] = "mutated"

	fresh := s.Projects()
	assert.Equal(t, "Cafe Dehradun", fresh[0].Title)
	assert.Equal(t, "React", fresh[0].Tools[0])
}

func TestAddMessage_StampsFields(t *testing.T) {
	s := newTestStore(t, repository.NewMemoryRepository())

	m, err := s.AddMessage(context.Background(), model.NewMessageDraft("Asha", "asha@example.com", "Need a logo"))
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "2026-10-18", m.Date)
	assert.False(t, m.Read)
	assert.Equal(t, m, s.Messages()[0])
}

func TestMarkMessageRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	require.NoError(t, s.MarkMessageRead(ctx, "m1"))
	once := s.Messages()
	require.NoError(t, s.MarkMessageRead(ctx, "m1"))

	assert.Equal(t, once, s.Messages())
	assert.True(t, once[0].Read)
}

func TestAddOrder_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	require.NoError(t, kv.Set(ctx, OrdersKey, "[]"))
	s := newTestStore(t, kv)

	d, err := model.NewOrderDraft("Test", "Growth Plan", model.OrderStatusPending, 24999, "")
	require.NoError(t, err)
	_, err = s.AddOrder(ctx, d)
	require.NoError(t, err)

	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.NotEmpty(t, orders[0].ID)
	assert.Equal(t, testNow.UTC().Format(model.DateLayout), orders[0].Date)
	assert.Equal(t, model.OrderStatusPending, orders[0].Status)
	assert.Equal(t, int64(24999), orders[0].Amount)
}

func TestUpdateOrderStatus_AnyTransition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	statuses := []model.OrderStatus{
		model.OrderStatusCompleted,
		model.OrderStatusPending,
		model.OrderStatusCancelled,
		model.OrderStatusInProgress,
		model.OrderStatusCancelled,
		model.OrderStatusCompleted,
	}
	for _, st := range statuses {
		require.NoError(t, s.UpdateOrderStatus(ctx, "o1", st))
		assert.Equal(t, st, s.Orders()[0].Status)
	}

	before := s.Orders()
	require.NoError(t, s.UpdateOrderStatus(ctx, "missing", model.OrderStatusPending))
	assert.Equal(t, before, s.Orders())
}

func TestWriteFailure_KeepsMutation(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryRepository()
	s := newTestStore(t, kv)

	kv.FailWrites(errors.New("quota exceeded"))

	d, err := model.NewOrderDraft("Asha", "Starter Plan", model.OrderStatusPending, 9999, "")
	require.NoError(t, err)
	o, err := s.AddOrder(ctx, d)
	require.ErrorIs(t, err, repository.ErrPersist)
	assert.Equal(t, o, s.Orders()[0])

	err = s.DeleteProject(ctx, "1")
	require.ErrorIs(t, err, repository.ErrPersist)
	_, ok := s.Project("1")
	assert.False(t, ok)

	_, stored, err := kv.Get(ctx, OrdersKey)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, repository.NewMemoryRepository())

	st := s.Stats()
	assert.Equal(t, model.Stats{TotalProjects: 6, TotalRevenue: 0, PendingOrders: 0, UnreadMessages: 1}, st)

	require.NoError(t, s.UpdateOrderStatus(ctx, "o1", model.OrderStatusCompleted))
	d, err := model.NewOrderDraft("Asha", "Starter Plan", model.OrderStatusPending, 9999, "")
	require.NoError(t, err)
	_, err = s.AddOrder(ctx, d)
	require.NoError(t, err)
	require.NoError(t, s.MarkMessageRead(ctx, "m1"))

	st = s.Stats()
	assert.Equal(t, int64(24999), st.TotalRevenue)
	assert.Equal(t, 1, st.PendingOrders)
	assert.Equal(t, 0, st.UnreadMessages)
}
