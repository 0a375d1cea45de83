package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
)

type mockEventLister struct {
	mock.Mock
}

func (m *mockEventLister) List(ctx context.Context, limit int) ([]models.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Event), args.Error(1)
}

func testEvents() []models.Event {
	now := time.Now()

	return []models.Event{
		{Timestamp: now.Add(-2 * time.Minute), Severity: models.SeverityError, Message: "osd.3 down"},
		{Timestamp: now.Add(-10 * time.Minute), Severity: models.SeverityWarning, Message: "pool nearly full"},
		{Timestamp: now.Add(-1 * time.Hour), Severity: models.SeverityInfo, Message: "rebalance complete"},
	}
}

func TestRefreshPopulatesRows(t *testing.T) {
	lister := &mockEventLister{}
	lister.On("List", mock.Anything, defaultEventLimit).Return(testEvents(), nil)

	widget := NewEventsWidget(lister, WithWidgetLogger(logger.NewTestLogger()))
	require.NoError(t, widget.Refresh(context.Background()))

	rows := widget.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, "2 minutes ago", rows[0][0])
	assert.Equal(t, "error", rows[0][1])
	assert.Equal(t, "osd.3 down", rows[0][2])
	assert.Equal(t, "warning", rows[1][1])
	assert.Equal(t, "info", rows[2][1])

	lister.AssertExpectations(t)
}

func TestRefreshErrorKeepsPreviousEvents(t *testing.T) {
	lister := &mockEventLister{}
	lister.On("List", mock.Anything, defaultEventLimit).Return(testEvents(), nil).Once()
	lister.On("List", mock.Anything, defaultEventLimit).Return(nil, errors.New("core unreachable")).Once()

	widget := NewEventsWidget(lister, WithWidgetLogger(logger.NewTestLogger()))
	require.NoError(t, widget.Refresh(context.Background()))
	require.Error(t, widget.Refresh(context.Background()))

	assert.Len(t, widget.Rows(), 3, "stale events beat a blank dashboard")
	lister.AssertExpectations(t)
}

func TestRefreshUsesConfiguredLimit(t *testing.T) {
	lister := &mockEventLister{}
	lister.On("List", mock.Anything, 5).Return([]models.Event{}, nil)

	widget := NewEventsWidget(lister,
		WithEventLimit(5),
		WithWidgetLogger(logger.NewTestLogger()))
	require.NoError(t, widget.Refresh(context.Background()))

	lister.AssertExpectations(t)
}

func TestAppendPrependsAndEvicts(t *testing.T) {
	widget := NewEventsWidget(&mockEventLister{},
		WithEventLimit(2),
		WithWidgetLogger(logger.NewTestLogger()))

	widget.Append(models.Event{Message: "first"})
	widget.Append(models.Event{Message: "second"})
	widget.Append(models.Event{Message: "third"})

	events := widget.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "third", events[0].Message, "newest first")
	assert.Equal(t, "second", events[1].Message)
}

func TestColumnsSchema(t *testing.T) {
	widget := NewEventsWidget(&mockEventLister{})

	columns := widget.Columns()
	require.Len(t, columns, 3)
	assert.Equal(t, "When", columns[0].Title)
	assert.Equal(t, "Severity", columns[1].Title)
	assert.Equal(t, "Message", columns[2].Title)
}
