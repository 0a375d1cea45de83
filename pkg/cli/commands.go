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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/coralstor/console/pkg/api"
	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/models"
)

// runStatus prints the cluster status as indented JSON.
func runStatus(ctx context.Context, client *api.ClusterClient, w io.Writer) error {
	current, err := client.Status(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize status: %w", err)
	}

	fmt.Fprintln(w, string(data))

	return nil
}

// runServices prints the service list as an aligned table.
func runServices(ctx context.Context, client *api.ServicesClient, w io.Writer) error {
	list, err := client.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tREPLICAS\tSTATUS")

	for _, svc := range list.Services {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			svc.Name, svc.Type, forms.FormatBytes(svc.Size), svc.ReplicaCount, svc.Status.Code)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s allocated across %d services\n",
		forms.FormatBytes(list.Allocated), len(list.Services))

	return nil
}

func runCreate(ctx context.Context, client *api.ServicesClient, spec *models.ServiceSpec, w io.Writer) error {
	created, err := client.Create(ctx, spec)
	if err != nil {
		return err
	}

	if !created {
		fmt.Fprintf(w, "Service %s already exists\n", spec.Name)
		return nil
	}

	fmt.Fprintf(w, "Service %s created (%s)\n", spec.Name, forms.FormatBytes(spec.Size))

	return nil
}

func runDelete(ctx context.Context, client *api.ServicesClient, name string, w io.Writer) error {
	if err := client.Delete(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(w, "Service %s deleted\n", name)

	return nil
}

// runEvents prints recent events; with follow it switches to the websocket
// stream afterwards and runs until interrupted.
func runEvents(ctx context.Context, client *api.EventsClient, limit int, follow bool, w io.Writer) error {
	events, err := client.List(ctx, limit)
	if err != nil {
		return err
	}

	for i := len(events) - 1; i >= 0; i-- {
		printEvent(w, &events[i])
	}

	if !follow {
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stream, err := client.Tail(ctx)
	if err != nil {
		return err
	}

	for event := range stream {
		printEvent(w, &event)
	}

	return nil
}

func printEvent(w io.Writer, event *models.Event) {
	fmt.Fprintf(w, "%-16s %-8s %s\n",
		humanize.Time(event.Timestamp), event.Severity, event.Message)
}
