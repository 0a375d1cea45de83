/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coralstor/console/pkg/api"
	"github.com/coralstor/console/pkg/config"
	"github.com/coralstor/console/pkg/dashboard"
	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/lifecycle"
	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
	"github.com/coralstor/console/pkg/status"
)

type consoleDeps struct {
	cfg     *config.Config
	log     logger.Logger
	gate    *loginGate
	alloc   *forms.IDAllocator
	connect func(apiKey string) (*session, error)
}

// Run is the console entry point. With no subcommand it launches the
// interactive dashboard; subcommands run once and print to stdout.
func Run(args []string) error {
	cmdCfg := &CmdConfig{}

	rest, err := parseGlobalFlags(args, cmdCfg)
	if err != nil {
		return err
	}

	if cmdCfg.Help {
		ShowHelp()
		return nil
	}

	if len(rest) > 0 {
		cmdCfg.SubCmd = rest[0]

		handler, ok := subcommandHandlers()[cmdCfg.SubCmd]
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownCommand, cmdCfg.SubCmd)
		}

		if err := handler.Parse(rest[1:], cmdCfg); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(cmdCfg)
	if err != nil {
		return err
	}

	if cmdCfg.SubCmd == "" {
		// Keep zerolog off the TUI's stdout.
		cfg.Logging.Output = "stderr"
	}

	if err := lifecycle.InitializeLogger(cfg.Logging); err != nil {
		return err
	}

	log, err := lifecycle.CreateComponentLogger("console", cfg.Logging)
	if err != nil {
		return err
	}

	if cmdCfg.SubCmd != "" {
		return runSubcommand(cmdCfg, cfg, log)
	}

	return runTUI(cfg, log)
}

func parseGlobalFlags(args []string, cmdCfg *CmdConfig) ([]string, error) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.StringVar(&cmdCfg.ConfigFile, "config", "", "path to console.json config file")
	fs.StringVar(&cmdCfg.CoreURL, "core-url", "", "CoralStor core base URL")
	fs.StringVar(&cmdCfg.APIKey, "api-key", "", "API key for authenticating with core")
	fs.BoolVar(&cmdCfg.TLSSkipVerify, "tls-skip-verify", false, "skip TLS certificate verification")
	fs.BoolVar(&cmdCfg.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&cmdCfg.Help, "help", false, "show help message")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	return fs.Args(), nil
}

func loadConfig(cmdCfg *CmdConfig) (*config.Config, error) {
	cfg, err := config.Load(context.Background(), cmdCfg.ConfigFile, nil)
	if err != nil {
		// Flags can stand in for a missing config file.
		if cmdCfg.CoreURL == "" {
			return nil, err
		}

		cfg = &config.Config{}
	}

	if cmdCfg.CoreURL != "" {
		cfg.CoreURL = cmdCfg.CoreURL
	}

	if cmdCfg.APIKey != "" {
		cfg.APIKey = cmdCfg.APIKey
	}

	if cmdCfg.TLSSkipVerify {
		cfg.TLSSkipVerify = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cmdCfg.Debug {
		cfg.Logging.Debug = true
	}

	return cfg, nil
}

func runTUI(cfg *config.Config, log logger.Logger) error {
	gate := newLoginGate(true)

	deps := consoleDeps{
		cfg:     cfg,
		log:     log,
		gate:    gate,
		alloc:   forms.NewIDAllocator(),
		connect: connectFactory(cfg, gate, log),
	}

	m := initialModel(deps)
	defer m.sessClose()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}

	return nil
}

func (m *model) sessClose() {
	if m.sess != nil {
		m.sess.close()
	}
}

// connectFactory builds sessions against the configured core. The status
// service starts polling immediately but stays gated until the console
// unlocks.
func connectFactory(cfg *config.Config, gate *loginGate, log logger.Logger) func(string) (*session, error) {
	return func(apiKey string) (*session, error) {
		client, err := api.NewClient(api.ClientConfig{
			BaseURL:       cfg.CoreURL,
			APIKey:        apiKey,
			Timeout:       time.Duration(cfg.Timeout),
			TLSSkipVerify: cfg.TLSSkipVerify,
			Logger:        log,
		})
		if err != nil {
			return nil, err
		}

		cluster := api.NewClusterClient(client)
		events := api.NewEventsClient(client)

		svc := status.New(cluster.Status,
			status.WithInterval(time.Duration(cfg.PollInterval)),
			status.WithSkipWhile(gate.Active),
			status.WithLogger(log))

		statusCh, unsubscribe := svc.Subscribe()

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			if err := svc.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("Status polling stopped")
			}
		}()

		// Live events are best-effort; the dashboard refresh covers cores
		// without the websocket endpoint.
		eventCh, err := events.Tail(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Event stream unavailable, using periodic refresh")

			eventCh = nil
		}

		return &session{
			services:    api.NewServicesClient(client),
			cluster:     cluster,
			events:      events,
			widget:      dashboard.NewEventsWidget(events, dashboard.WithWidgetLogger(log)),
			status:      svc,
			statusCh:    statusCh,
			unsubscribe: unsubscribe,
			eventCh:     eventCh,
			cancel:      cancel,
		}, nil
	}
}

func runSubcommand(cmdCfg *CmdConfig, cfg *config.Config, log logger.Logger) error {
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:       cfg.CoreURL,
		APIKey:        cfg.APIKey,
		Timeout:       time.Duration(cfg.Timeout),
		TLSSkipVerify: cfg.TLSSkipVerify,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch cmdCfg.SubCmd {
	case "status":
		return runStatus(ctx, api.NewClusterClient(client), os.Stdout)
	case "services":
		return runServices(ctx, api.NewServicesClient(client), os.Stdout)
	case "create":
		spec, err := specFromCmd(cmdCfg)
		if err != nil {
			return err
		}

		return runCreate(ctx, api.NewServicesClient(client), spec, os.Stdout)
	case "delete":
		if cmdCfg.ServiceName == "" {
			return errServiceNameRequired
		}

		return runDelete(ctx, api.NewServicesClient(client), cmdCfg.ServiceName, os.Stdout)
	case "events":
		return runEvents(ctx, api.NewEventsClient(client), cmdCfg.EventLimit, cmdCfg.FollowEvent, os.Stdout)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmdCfg.SubCmd)
	}
}

// specFromCmd validates the create flags into a service spec.
func specFromCmd(cmdCfg *CmdConfig) (*models.ServiceSpec, error) {
	if cmdCfg.ServiceName == "" {
		return nil, errServiceNameRequired
	}

	if cmdCfg.Size == "" {
		return nil, errServiceSizeRequired
	}

	size, err := forms.ParseBytes(cmdCfg.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidServiceSize, cmdCfg.Size)
	}

	return &models.ServiceSpec{
		Name:         cmdCfg.ServiceName,
		Type:         cmdCfg.ServiceType,
		Backend:      cmdCfg.Backend,
		Size:         size,
		ReplicaCount: cmdCfg.Replicas,
	}, nil
}
