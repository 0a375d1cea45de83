package cli

import (
	"flag"
	"fmt"
)

const defaultEventLimit = 20

// SubcommandHandler defines the interface for parsing subcommand flags.
type SubcommandHandler interface {
	Parse(args []string, cfg *CmdConfig) error
}

func subcommandHandlers() map[string]SubcommandHandler {
	return map[string]SubcommandHandler{
		"status":   StatusHandler{},
		"services": ServicesHandler{},
		"create":   CreateHandler{},
		"delete":   DeleteHandler{},
		"events":   EventsHandler{},
	}
}

// StatusHandler handles the status subcommand, which takes no flags.
type StatusHandler struct{}

func (StatusHandler) Parse(args []string, _ *CmdConfig) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing status flags: %w", err)
	}

	return nil
}

// ServicesHandler handles the services subcommand, which takes no flags.
type ServicesHandler struct{}

func (ServicesHandler) Parse(args []string, _ *CmdConfig) error {
	fs := flag.NewFlagSet("services", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing services flags: %w", err)
	}

	return nil
}

// CreateHandler handles flags for the create subcommand.
type CreateHandler struct{}

func (CreateHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	name := fs.String("name", "", "service name")
	serviceType := fs.String("type", "block", "service type: block, file, or object")
	backend := fs.String("backend", "", "backend pool (required for object services)")
	size := fs.String("size", "", "service size (e.g. 10GiB)")
	replicas := fs.Int("replicas", 0, "replica count (0 uses the cluster default)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing create flags: %w", err)
	}

	cfg.ServiceName = *name
	cfg.ServiceType = *serviceType
	cfg.Backend = *backend
	cfg.Size = *size
	cfg.Replicas = *replicas

	return nil
}

// DeleteHandler handles flags for the delete subcommand.
type DeleteHandler struct{}

func (DeleteHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	name := fs.String("name", "", "service name")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing delete flags: %w", err)
	}

	cfg.ServiceName = *name

	return nil
}

// EventsHandler handles flags for the events subcommand.
type EventsHandler struct{}

func (EventsHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	limit := fs.Int("limit", defaultEventLimit, "number of recent events to fetch")
	follow := fs.Bool("follow", false, "stream events until interrupted")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing events flags: %w", err)
	}

	cfg.EventLimit = *limit
	cfg.FollowEvent = *follow

	return nil
}
