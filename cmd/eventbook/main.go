/*
Package main is a smoke-test shell for the EventBook client stack.

It bootstraps the full data-synchronization layer against the configured API
(by default the bundled mock server), restores or establishes a session with
the seeded development account, and walks the main read and mutation paths:
list events, register for the first open one, list registrations, cancel.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"eventbook/internal/app"
	"eventbook/internal/configs"
	"eventbook/internal/pkg/logx"
)

const (
	demoEmail    = "client@test.com"
	demoPassword = "123123"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := app.Bootstrap(cfg)
	if err != nil {
		logx.Fatal(err, "Failed to bootstrap the client stack")
	}

	stack.Session.Initialize(ctx)
	if !stack.Session.IsAuthenticated() {
		if err := stack.Session.Login(ctx, demoEmail, demoPassword); err != nil {
			logx.Fatal(err, "Demo login failed; is the mock API server running?")
		}
	}
	user := stack.Session.User()
	logx.Info("Session established", "user_id", user.ID, "email", user.Email)

	page, err := stack.Client.Events(ctx, 1, 10)
	if err != nil {
		logx.Fatal(err, "Failed to list events")
	}
	logx.Info("Fetched event listing", "total", page.Total, "page_size", len(page.Data))

	var openEventID string
	for _, e := range page.Data {
		logx.Info("Event",
			"id", e.ID, "title", e.Title, "date", e.Date,
			"spots", e.AvailableSpots, "capacity", e.Capacity)
		if openEventID == "" && e.AvailableSpots > 0 {
			openEventID = e.ID
		}
	}
	if openEventID == "" {
		logx.Info("No event with open spots; stopping after the read path")
		return
	}

	reg, err := stack.Client.RegisterForEvent(ctx, openEventID)
	if err != nil {
		logx.Fatal(err, "Registration failed", "event_id", openEventID)
	}
	logx.Info("Registered", "registration_id", reg.ID, "event_id", reg.EventID)

	regs, err := stack.Client.UserRegistrations(ctx, user.ID)
	if err != nil {
		logx.Fatal(err, "Failed to list registrations")
	}
	logx.Info("Registrations after registering", "count", len(regs))

	if err := stack.Client.CancelRegistration(ctx, reg.ID); err != nil {
		logx.Fatal(err, "Cancellation failed", "registration_id", reg.ID)
	}
	logx.Info("Cancelled", "registration_id", reg.ID)

	detail, err := stack.Client.EventByID(ctx, openEventID)
	if err != nil {
		logx.Fatal(err, "Failed to refetch event detail")
	}
	logx.Info("Authoritative detail after cancel",
		"event_id", detail.ID, "spots", detail.AvailableSpots)
}
