package cli

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/coralstor/console/pkg/api"
	"github.com/coralstor/console/pkg/config"
	"github.com/coralstor/console/pkg/dashboard"
	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
	"github.com/coralstor/console/pkg/status"
)

// CmdConfig holds parsed command-line configuration.
type CmdConfig struct {
	Help          bool
	SubCmd        string
	ConfigFile    string
	CoreURL       string
	APIKey        string
	TLSSkipVerify bool
	Debug         bool

	ServiceName string
	ServiceType string
	Backend     string
	Size        string
	Replicas    int

	EventLimit  int
	FollowEvent bool
}

type view int

const (
	viewLocked view = iota
	viewDashboard
	viewCreate
)

// session bundles everything that exists only while the console is connected
// to a core.
type session struct {
	services *api.ServicesClient
	cluster  *api.ClusterClient
	events   *api.EventsClient
	widget   *dashboard.EventsWidget

	status      *status.Service
	statusCh    <-chan *models.ClusterStatus
	unsubscribe func()
	eventCh     <-chan models.Event
	cancel      context.CancelFunc
}

func (s *session) close() {
	if s == nil {
		return
	}

	s.unsubscribe()
	_ = s.status.Stop(context.Background())
	s.cancel()
}

// createView is the service-creation form bound to its text inputs.
type createView struct {
	form   *forms.Form
	inputs []textinput.Model
	focus  int
}

type model struct {
	cfg     *config.Config
	log     logger.Logger
	gate    *loginGate
	alloc   *forms.IDAllocator
	connect func(apiKey string) (*session, error)

	sess   *session
	widget *dashboard.EventsWidget

	view     view
	current  *models.ClusterStatus
	degraded bool
	failures int

	services  []models.ServiceInfo
	allocated uint64
	table     table.Model

	keyInput textinput.Model
	create   *createView

	canCopy     bool
	copyMessage string
	notice      string
	err         error
	styles      styles
}

// Messages delivered to the bubbletea update loop.
type (
	statusMsg struct {
		status   *models.ClusterStatus
		degraded bool
		failures int
	}

	statusClosedMsg struct{}

	servicesMsg struct {
		services *models.Services
	}

	eventsMsg struct{}

	eventStreamMsg struct {
		open bool
	}

	serviceCreatedMsg struct {
		name string
	}

	serviceDeletedMsg struct {
		name string
	}

	errMsg struct {
		err error
	}
)
