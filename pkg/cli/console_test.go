package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/config"
	"github.com/coralstor/console/pkg/dashboard"
	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
	"github.com/coralstor/console/pkg/status"
)

func testDeps(t *testing.T, connect func(string) (*session, error)) consoleDeps {
	t.Helper()

	return consoleDeps{
		cfg:     &config.Config{CoreURL: "http://core.local"},
		log:     logger.NewTestLogger(),
		gate:    newLoginGate(true),
		alloc:   forms.NewIDAllocator(),
		connect: connect,
	}
}

func TestLoginGate(t *testing.T) {
	gate := newLoginGate(true)
	assert.True(t, gate.Active())

	gate.Set(false)
	assert.False(t, gate.Active())
}

func TestLockSuppressesPolling(t *testing.T) {
	deps := testDeps(t, nil)
	m := initialModel(deps)
	m.view = viewDashboard
	m.gate.Set(false)

	m.lock()

	assert.Equal(t, viewLocked, m.view)
	assert.True(t, m.gate.Active(), "locking re-engages the poll gate")
}

func TestUnlockConnectsOnce(t *testing.T) {
	svc := status.New(func(context.Context) (*models.ClusterStatus, error) {
		return &models.ClusterStatus{}, nil
	}, status.WithLogger(logger.NewTestLogger()))
	ch, unsub := svc.Subscribe()

	widget := dashboard.NewEventsWidget(nil, dashboard.WithWidgetLogger(logger.NewTestLogger()))

	connects := 0
	deps := testDeps(t, func(apiKey string) (*session, error) {
		connects++
		assert.Equal(t, "secret", apiKey)

		return &session{
			widget:      widget,
			status:      svc,
			statusCh:    ch,
			unsubscribe: unsub,
			cancel:      func() {},
		}, nil
	})

	m := initialModel(deps)
	require.Nil(t, m.widget, "no widget before a session exists")
	require.NotNil(t, m.unlock("secret"))
	assert.Equal(t, viewDashboard, m.view)
	assert.False(t, m.gate.Active())
	assert.Same(t, widget, m.widget, "unlock adopts the session's widget")
	require.Equal(t, 1, connects)

	m.lock()
	require.NotNil(t, m.unlock(""))
	assert.Equal(t, 1, connects, "relocking keeps the existing session")
}

func TestStatusMsgUpdatesModel(t *testing.T) {
	svc := status.New(func(context.Context) (*models.ClusterStatus, error) {
		return &models.ClusterStatus{}, nil
	}, status.WithLogger(logger.NewTestLogger()))
	ch, unsub := svc.Subscribe()

	m := initialModel(testDeps(t, nil))
	m.sess = &session{status: svc, statusCh: ch, unsubscribe: unsub, cancel: func() {}}

	current := &models.ClusterStatus{
		Health: models.ServiceStatus{Code: models.StatusWarning, Message: "1 osd down"},
		FSID:   "b7f2",
	}

	_, cmd := m.Update(statusMsg{status: current, degraded: true, failures: 2})

	assert.Same(t, current, m.current)
	assert.True(t, m.degraded)
	assert.Equal(t, 2, m.failures)
	assert.NotNil(t, cmd, "keeps waiting for the next status")
}

func TestStatusLine(t *testing.T) {
	m := initialModel(testDeps(t, nil))
	s := newStyles()

	assert.Contains(t, m.statusLine(&s), "Waiting for cluster status")

	m.current = &models.ClusterStatus{
		Health: models.ServiceStatus{Code: models.StatusOK, Message: "all good"},
		FSID:   "b7f2c1d0",
	}

	line := m.statusLine(&s)
	assert.Contains(t, line, "OK")
	assert.Contains(t, line, "all good")
	assert.Contains(t, line, "b7f2c1d0")
	assert.NotContains(t, line, "stale")

	m.degraded = true
	m.failures = 3
	assert.Contains(t, m.statusLine(&s), "(stale, 3 failed polls)")
}

func TestSetServicesRows(t *testing.T) {
	m := initialModel(testDeps(t, nil))

	m.setServices(&models.Services{
		Allocated: 110 << 30,
		Services: []models.ServiceInfo{
			{Name: "archive", Type: "file", Size: 100 << 30, ReplicaCount: 3,
				Status: models.ServiceStatus{Code: models.StatusOK}},
			{Name: "vol0", Type: "block", Size: 10 << 30, ReplicaCount: 2,
				Status: models.ServiceStatus{Code: models.StatusWarning}},
		},
	})

	rows := m.table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"archive", "file", "100 GiB", "3", "ok"}, []string(rows[0]))
	assert.Equal(t, []string{"vol0", "block", "10 GiB", "2", "warning"}, []string(rows[1]))
	assert.Equal(t, uint64(110<<30), m.allocated)
}

func TestCreateViewFocusCycles(t *testing.T) {
	create, err := newCreateView(forms.NewIDAllocator())
	require.NoError(t, err)
	require.Len(t, create.inputs, 5)

	assert.Equal(t, 0, create.focus)

	create.advance(1)
	assert.Equal(t, 1, create.focus)

	create.advance(-1)
	assert.Equal(t, 0, create.focus)

	create.advance(-1)
	assert.Equal(t, 4, create.focus, "focus wraps")
}

func TestCreateViewSyncFocused(t *testing.T) {
	create, err := newCreateView(forms.NewIDAllocator())
	require.NoError(t, err)

	create.inputs[0].SetValue("archive")
	create.syncFocused()

	assert.Equal(t, "archive", create.form.Control("name").Value())
}

func TestCreateViewShowsErrorsOnlyAfterSubmit(t *testing.T) {
	create, err := newCreateView(forms.NewIDAllocator())
	require.NoError(t, err)

	s := newStyles()
	assert.NotContains(t, create.render(&s), "is required",
		"pristine form hides the empty-name error")

	create.form.Submit()
	assert.Contains(t, create.render(&s), "is required")
}

func strippedView(m *model) string {
	return strings.TrimSpace(m.View())
}

func TestViewRendersLockScreen(t *testing.T) {
	m := initialModel(testDeps(t, nil))

	view := strippedView(m)
	assert.Contains(t, view, "CoralStor Console")
	assert.Contains(t, view, "API key")
}
