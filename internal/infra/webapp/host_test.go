package webapp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/usecase"
)

func TestHostRecordsRuntimeCalls(t *testing.T) {
	ctx := context.Background()
	h := NewHost(entity.HostUser{ID: 42, FirstName: "Ivan"})

	user, ok := h.User()
	require.True(t, ok)
	assert.Equal(t, "Ivan", user.FirstName)

	assert.False(t, h.TriggerAction(ctx))
	assert.False(t, h.ActionButton().Visible)

	clicks := 0
	h.SetActionButton("Создать заявку", func(context.Context) { clicks++ })
	assert.Equal(t, ActionButton{Text: "Создать заявку", Visible: true}, h.ActionButton())
	assert.True(t, h.TriggerAction(ctx))
	assert.Equal(t, 1, clicks)

	require.NoError(t, h.ShowAlert(ctx, "one"))
	require.NoError(t, h.ShowAlert(ctx, "two"))
	assert.Equal(t, []string{"one", "two"}, h.DrainAlerts())
	assert.Equal(t, []string{}, h.DrainAlerts())

	require.NoError(t, h.Close(ctx))
	assert.True(t, h.Closed())
}

func TestHostWithoutUser(t *testing.T) {
	_, ok := NewHost(entity.HostUser{}).User()
	assert.False(t, ok)
}

func TestRegistryReusesSessionUntilClosed(t *testing.T) {
	calls := 0
	r := NewRegistry(func(host usecase.Host, userID int64) usecase.PartnersGateway {
		calls++
		assert.Equal(t, int64(42), userID)
		return nil
	}, 0)
	user := entity.HostUser{ID: 42}

	first := r.Get(user)
	assert.Same(t, first, r.Get(user))
	assert.Equal(t, 1, calls)

	require.NoError(t, first.Host.Close(context.Background()))
	second := r.Get(user)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, r.Len())
}

func TestEntryBootRunsOnce(t *testing.T) {
	r := NewRegistry(func(usecase.Host, int64) usecase.PartnersGateway { return nil }, 0)
	e := r.Get(entity.HostUser{ID: 1})

	runs := 0
	boot := func(context.Context, *usecase.Session) { runs++ }

	assert.True(t, e.Boot(context.Background(), boot))
	assert.False(t, e.Boot(context.Background(), boot))
	assert.Equal(t, 1, runs)
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	r := NewRegistry(func(usecase.Host, int64) usecase.PartnersGateway { return nil }, time.Hour)
	r.now = func() time.Time { return clock }

	ivan := r.Get(entity.HostUser{ID: 1})
	anna := r.Get(entity.HostUser{ID: 2})
	require.NoError(t, anna.Host.Close(context.Background()))

	clock = clock.Add(30 * time.Minute)
	assert.Same(t, ivan, r.Get(entity.HostUser{ID: 1}), "a request refreshes the session")
	assert.Equal(t, 1, r.Sweep(), "closed page is swept")
	assert.Equal(t, 1, r.Len())

	clock = clock.Add(61 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistryReplacesExpiredSessionOnGet(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	r := NewRegistry(func(usecase.Host, int64) usecase.PartnersGateway { return nil }, time.Minute)
	r.now = func() time.Time { return clock }

	first := r.Get(entity.HostUser{ID: 1})
	clock = clock.Add(2 * time.Minute)

	assert.NotSame(t, first, r.Get(entity.HostUser{ID: 1}))
}
