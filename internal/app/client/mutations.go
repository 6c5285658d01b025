package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"eventbook/internal/app/model"
	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/errs"
	"eventbook/internal/pkg/logx"
	"eventbook/internal/pkg/randx"
)

// RegisterForEvent registers the session user for the event. The cached
// detail entry's availableSpots is decremented optimistically before the
// write is dispatched; on success the affected key groups are invalidated so
// the next read is authoritative, on failure the decrement is rolled back and
// the error surfaced. A full event is rejected locally before any optimistic
// write or network call.
func (c *Client) RegisterForEvent(ctx context.Context, eventID string) (model.Registration, error) {
	user := c.session.User()
	if user == nil {
		return model.Registration{}, errs.NewError(errs.ErrUnauthenticated)
	}

	detailKey := eventDetailKey(eventID)

	event, haveEvent := c.peekEvent(eventID)
	if !haveEvent {
		fetched, err := c.EventByID(ctx, eventID)
		if err != nil {
			return model.Registration{}, err
		}
		event = fetched
	}

	if event.AvailableSpots <= 0 {
		return model.Registration{}, errs.NewError(errs.ErrEventFull)
	}

	txn := c.cache.Begin()
	txn.Update(detailKey, func(cur any, ok bool) (any, bool) {
		if !ok {
			return nil, false
		}
		e := cur.(model.Event)
		if e.AvailableSpots > 0 {
			e.AvailableSpots--
		}
		return e, true
	})

	reg := model.Registration{
		ID:           randx.NewRegistrationID(),
		UserID:       user.ID,
		EventID:      eventID,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		Status:       model.StatusConfirmed,
	}

	var created wire.Registration
	if err := c.gw.Post(ctx, "/registrations", wire.FromRegistration(reg, user.Name, user.Email), &created); err != nil {
		txn.Rollback()
		return model.Registration{}, err
	}
	txn.Commit()

	// The store may assign its own id on insert.
	if created.ID != "" {
		reg = wire.ToRegistration(created)
	}

	c.cache.Invalidate(userRegistrationsKey(user.ID))
	c.cache.Invalidate(detailKey)

	if err := c.users.AddRegisteredEvent(ctx, user.ID, eventID); err != nil {
		logx.Warn("Failed to mirror registration onto user document",
			"user_id", user.ID, "event_id", eventID, "error", err.Error())
	}

	return reg, nil
}

// CancelRegistration cancels a registration by id. The cached registration
// list drops the entry and the event detail regains a spot optimistically;
// both are rolled back if the remote delete fails. A 404 from the store is
// treated as success: the record is already gone remotely (or only ever
// existed as a mirrored projection) and the local state is what needs
// cleaning up. The registration's event id is resolved even when the list is
// not cached, so the mirrored projection is always cleaned up; a mirror entry
// left behind would resurrect the cancelled event through the read fallback.
func (c *Client) CancelRegistration(ctx context.Context, registrationID string) error {
	user := c.session.User()
	if user == nil {
		return errs.NewError(errs.ErrUnauthenticated)
	}

	regsKey := userRegistrationsKey(user.ID)

	var eventID string
	if v, ok := c.cache.Peek(regsKey); ok {
		for _, r := range v.([]model.Registration) {
			if r.ID == registrationID {
				eventID = r.EventID
				break
			}
		}
	}
	if eventID == "" {
		eventID = c.resolveRegistrationEvent(ctx, user.ID, registrationID)
	}

	txn := c.cache.Begin()
	txn.Update(regsKey, func(cur any, ok bool) (any, bool) {
		if !ok {
			return nil, false
		}
		regs := cur.([]model.Registration)
		kept := make([]model.Registration, 0, len(regs))
		for _, r := range regs {
			if r.ID != registrationID {
				kept = append(kept, r)
			}
		}
		return kept, true
	})

	if eventID != "" {
		txn.Update(eventDetailKey(eventID), func(cur any, ok bool) (any, bool) {
			if !ok {
				return nil, false
			}
			e := cur.(model.Event)
			if e.AvailableSpots < e.Capacity {
				e.AvailableSpots++
			}
			return e, true
		})
	}

	err := c.gw.Delete(ctx, "/registrations/"+url.PathEscape(registrationID))
	if err != nil && !(errs.CodeOf(err) == errs.ErrHTTP && errs.StatusOf(err) == http.StatusNotFound) {
		txn.Rollback()
		return err
	}
	txn.Commit()

	c.cache.Invalidate(regsKey)
	if eventID != "" {
		c.cache.Invalidate(eventDetailKey(eventID))
		if err := c.users.RemoveRegisteredEvent(ctx, user.ID, eventID); err != nil {
			logx.Warn("Failed to remove mirrored registration from user document",
				"user_id", user.ID, "event_id", eventID, "error", err.Error())
		}
	}

	return nil
}

// resolveRegistrationEvent finds the event a registration belongs to when the
// cached list is unavailable. The dedicated resource is consulted first; a
// synthesized projection id only ever matches the mirrored list.
func (c *Client) resolveRegistrationEvent(ctx context.Context, userID, registrationID string) string {
	var raw []wire.Registration
	if err := c.gw.Get(ctx, "/registrations?userId="+url.QueryEscape(userID), &raw); err == nil {
		for _, r := range raw {
			if r.ID == registrationID {
				return r.EventID
			}
		}
	}

	for _, r := range c.mirroredRegistrations(userID) {
		if r.ID == registrationID {
			return r.EventID
		}
	}
	return ""
}

// peekEvent returns the cached detail entry for the event without touching
// the network.
func (c *Client) peekEvent(eventID string) (model.Event, bool) {
	if v, ok := c.cache.Peek(eventDetailKey(eventID)); ok {
		return v.(model.Event), true
	}
	return model.Event{}, false
}
