/*
Package client is the mutation orchestrator and query facade of the EventBook
data-synchronization layer.

Every read goes through the query cache with an operation-specific staleness
window; every mutation applies its expected effect optimistically, issues the
remote write, and either commits (followed by invalidation of the affected
key groups, forcing an authoritative refetch) or rolls the optimism back and
surfaces the error.

The dedicated registrations resource is the canonical persistence strategy.
The mirrored registeredEventIds list on the user document is maintained as a
best-effort projection after each successful mutation and consulted only as a
read fallback when the dedicated resource has no rows for the user.
*/
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"eventbook/internal/app/model"
	"eventbook/internal/app/query"
	"eventbook/internal/app/session"
	"eventbook/internal/app/userstore"
	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/errs"
)

// Staleness windows per operation, matching how often each view can tolerate
// serving cached data before a background refresh is triggered.
const (
	listStaleAfter          = 2 * time.Minute
	detailStaleAfter        = 5 * time.Minute
	searchStaleAfter        = 1 * time.Minute
	registrationsStaleAfter = 2 * time.Minute
)

// Gateway is the slice of the remote gateway the orchestrator depends on.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}

// Client orchestrates queries and mutations over the query cache.
type Client struct {
	gw      Gateway
	cache   *query.Cache
	users   *userstore.Store
	session *session.Context
}

// New constructs a client over the given collaborators with an empty cache.
func New(gw Gateway, users *userstore.Store, sess *session.Context) *Client {
	return &Client{
		gw:      gw,
		cache:   query.NewCache(),
		users:   users,
		session: sess,
	}
}

// Key builders. Keys with a shared prefix form an invalidation group:
// invalidating eventListPrefix discards every cached page.

func eventListPrefix() query.Key {
	return query.NewKey("events", "list")
}

func eventListKey(page, limit int) query.Key {
	return query.NewKey("events", "list", fmt.Sprintf("page=%d&limit=%d", page, limit))
}

func eventDetailKey(id string) query.Key {
	return query.NewKey("events", "detail", id)
}

func eventSearchKey(q string, page, limit int) query.Key {
	return query.NewKey("events", "search", fmt.Sprintf("q=%s&page=%d&limit=%d", url.QueryEscape(q), page, limit))
}

func userRegistrationsKey(userID string) query.Key {
	return query.NewKey("registrations", "byUser", userID)
}

// Events returns one page of the event listing.
func (c *Client) Events(ctx context.Context, page, limit int) (model.EventPage, error) {
	v, err := c.cache.Fetch(ctx, eventListKey(page, limit), listStaleAfter, func(ctx context.Context) (any, error) {
		var raw wire.EventPage
		path := fmt.Sprintf("/events?page=%d&limit=%d", page, limit)
		if err := c.gw.Get(ctx, path, &raw); err != nil {
			return nil, err
		}
		return wire.ToEventPage(raw), nil
	})
	if err != nil {
		return model.EventPage{}, err
	}
	return v.(model.EventPage), nil
}

// SearchEvents returns one page of events matching the free-text query.
func (c *Client) SearchEvents(ctx context.Context, q string, page, limit int) (model.EventPage, error) {
	v, err := c.cache.Fetch(ctx, eventSearchKey(q, page, limit), searchStaleAfter, func(ctx context.Context) (any, error) {
		var raw wire.EventPage
		path := fmt.Sprintf("/events?search=%s&page=%d&limit=%d", url.QueryEscape(q), page, limit)
		if err := c.gw.Get(ctx, path, &raw); err != nil {
			return nil, err
		}
		return wire.ToEventPage(raw), nil
	})
	if err != nil {
		return model.EventPage{}, err
	}
	return v.(model.EventPage), nil
}

// EventByID returns a single event's detail record.
func (c *Client) EventByID(ctx context.Context, id string) (model.Event, error) {
	v, err := c.cache.Fetch(ctx, eventDetailKey(id), detailStaleAfter, func(ctx context.Context) (any, error) {
		var raw wire.Event
		if err := c.gw.Get(ctx, "/events/"+id, &raw); err != nil {
			return nil, err
		}
		return wire.ToEvent(raw), nil
	})
	if err != nil {
		return model.Event{}, err
	}
	return v.(model.Event), nil
}

// UserRegistrations returns the user's confirmed registrations from the
// dedicated resource. A 404 means the collection does not exist yet for this
// user and maps to an empty list, not an error. When the dedicated resource
// has no rows, the mirrored registeredEventIds projection on the cached user
// document is consulted as a fallback.
func (c *Client) UserRegistrations(ctx context.Context, userID string) ([]model.Registration, error) {
	v, err := c.cache.Fetch(ctx, userRegistrationsKey(userID), registrationsStaleAfter, func(ctx context.Context) (any, error) {
		var raw []wire.Registration
		err := c.gw.Get(ctx, "/registrations?userId="+url.QueryEscape(userID), &raw)
		if err != nil {
			if errs.CodeOf(err) == errs.ErrHTTP && errs.StatusOf(err) == http.StatusNotFound {
				raw = nil
			} else {
				return nil, err
			}
		}

		regs := make([]model.Registration, 0, len(raw))
		for _, r := range wire.ToRegistrations(raw) {
			if r.Status == model.StatusConfirmed {
				regs = append(regs, r)
			}
		}

		if len(regs) == 0 {
			regs = c.mirroredRegistrations(userID)
		}
		return regs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Registration), nil
}

// CheckRegistrationStatus reports whether the user holds a confirmed
// registration for the event, returning it when present.
func (c *Client) CheckRegistrationStatus(ctx context.Context, userID, eventID string) (*model.Registration, error) {
	regs, err := c.UserRegistrations(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, r := range regs {
		if r.EventID == eventID {
			reg := r
			return &reg, nil
		}
	}
	return nil, nil
}

// mirroredRegistrations projects the user's registeredEventIds list into
// registration records. Projected entries carry a synthesized id and exist
// only on the read path; the dedicated resource remains canonical.
func (c *Client) mirroredRegistrations(userID string) []model.Registration {
	user, ok := c.users.FindByID(userID)
	if !ok {
		return []model.Registration{}
	}

	regs := make([]model.Registration, 0, len(user.RegisteredEventIDs))
	for idx, eventID := range user.RegisteredEventIDs {
		regs = append(regs, model.Registration{
			ID:      fmt.Sprintf("%s-%s-%d", userID, eventID, idx),
			UserID:  userID,
			EventID: eventID,
			Status:  model.StatusConfirmed,
		})
	}
	return regs
}
