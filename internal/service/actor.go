package service

import (
	"context"
	"log"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/ws"

	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf a write happens.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     model.Role
}

// SystemActor performs seeding and maintenance writes.
var SystemActor = Actor{Username: "system", Role: model.RoleAdministrator}

func (a Actor) audit() string {
	if a.ID == uuid.Nil {
		if a.Username != "" {
			return a.Username
		}
		return "system"
	}
	return a.ID.String()
}

func (a Actor) userID() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

func (a Actor) name() string {
	if a.Username == "" {
		return "system"
	}
	return a.Username
}

// Notifier receives stock events after a unit of work commits.
type Notifier interface {
	Publish(event ws.Event)
}

// committer runs the side effects of a committed stock change: report cache
// invalidation and the websocket event. Neither can fail the write.
type committer struct {
	notifier Notifier
	reports  cache.ReportCache
}

func newCommitter(notifier Notifier, reports cache.ReportCache) committer {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	return committer{notifier: notifier, reports: reports}
}

func (c committer) afterCommit(ctx context.Context, event ws.Event) {
	if err := c.reports.Invalidate(context.WithoutCancel(ctx)); err != nil {
		log.Printf("report cache invalidate failed: %v", err)
	}
	if c.notifier != nil {
		c.notifier.Publish(event)
	}
}
