// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package devices keeps the client's copy of the registered device
// collection consistent with the server. It owns the per-item edit
// staging state, the add draft, and the per-operation status
// messages.
//
// The consistency model is deliberately blunt: every successful
// mutation is followed by an unconditional full reload. Staged edits
// are working copies, never merged back into loaded data — the
// server's response to a reload supersedes everything. This trades an
// extra round trip per write for a collection that never diverges
// from server state for more than one request, regardless of how
// concurrent edits from elsewhere interleave.
package devices

import (
	"context"
	"errors"
	"sync"

	"github.com/tortis/netregctl/lib/netreg"
	"github.com/tortis/netregctl/lib/session"
)

// ServerErrorMessage is shown for any failure that is not a 4xx
// rejection: network errors, 5xx, undecodable responses. Raw server
// internals never reach the user through this branch.
const ServerErrorMessage = "Oops! Server error, please try again."

// Item is one device in the collection together with its transient,
// client-only edit state. The embedded Device is the authoritative
// copy from the last load; Staged is a snapshot of the editable
// fields, decoupled from the authoritative copy until a write
// succeeds.
type Item struct {
	netreg.Device

	// Editing is true while the item is in an in-place edit form.
	Editing bool

	// Staged holds the fields a write would submit. Meaningful while
	// Editing, or transiently during an enable toggle. Never
	// persisted; discarded wholesale on the next load.
	Staged netreg.Device
}

// Snapshot is an immutable copy of the manager state for rendering.
type Snapshot struct {
	Items      []Item
	Adding     bool
	Draft      netreg.Device
	Message    string
	Err        string
	Generation uint64
}

// Manager tracks the device collection for one session. Methods are
// safe for the one-request-in-flight usage the UI produces; a mutex
// keeps overlapping calls from corrupting state, but ordering of
// overlapping mutations is whatever the transport delivers — the
// trailing reload squares the collection with the server either way.
type Manager struct {
	client *netreg.Client
	store  *session.Store

	mu         sync.Mutex
	items      []Item
	adding     bool
	draft      netreg.Device
	message    string
	errMessage string
	generation uint64
}

// NewManager creates a Manager that authorizes every request with the
// credential currently in store.
func NewManager(client *netreg.Client, store *session.Store) *Manager {
	return &Manager{client: client, store: store}
}

// Activate marks a new view activation and returns its generation.
// Results computed under an older generation are stale: the view that
// initiated them is gone, and their snapshots must be discarded
// rather than applied to the new view's state.
func (manager *Manager) Activate() uint64 {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.generation++
	return manager.generation
}

// Generation returns the current view activation generation.
func (manager *Manager) Generation() uint64 {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.generation
}

// Snapshot returns a copy of the collection state for rendering.
func (manager *Manager) Snapshot() Snapshot {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	items := make([]Item, len(manager.items))
	copy(items, manager.items)
	return Snapshot{
		Items:      items,
		Adding:     manager.adding,
		Draft:      manager.draft,
		Message:    manager.message,
		Err:        manager.errMessage,
		Generation: manager.generation,
	}
}

// Load fetches the device list and replaces the entire local
// collection. Any in-progress edit or add staging is discarded — the
// authoritative state wins. On failure the collection is left as it
// was, the error is surfaced, and any prior success message is
// cleared.
func (manager *Manager) Load(ctx context.Context) error {
	credential, _ := manager.store.Load()

	fetched, err := manager.client.Devices(ctx, credential)
	if err != nil {
		manager.failLoad(err)
		return err
	}

	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.items = make([]Item, len(fetched))
	for i, device := range fetched {
		manager.items[i] = Item{Device: device}
	}
	manager.adding = false
	manager.draft = netreg.Device{}
	manager.message = ""
	manager.errMessage = ""
	return nil
}

// StartEditing snapshots the item's editable fields (MAC, name,
// owner, enabled) into its staged copy and opens the edit form. No
// server interaction. Starting an edit overwrites any stale staging
// left by an earlier failed write.
func (manager *Manager) StartEditing(mac string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	item := manager.find(mac)
	if item == nil {
		return
	}
	item.Staged = netreg.Device{
		MAC:     item.MAC,
		Device:  item.Device.Device,
		Owner:   item.Owner,
		Enabled: item.Enabled,
	}
	item.Editing = true
}

// SetStaged replaces the staged fields for an item being edited.
func (manager *Manager) SetStaged(mac string, staged netreg.Device) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if item := manager.find(mac); item != nil {
		item.Staged = staged
	}
}

// CancelEditing closes the edit form without submitting. The staged
// copy is left behind; the next StartEditing or load supersedes it.
func (manager *Manager) CancelEditing(mac string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if item := manager.find(mac); item != nil {
		item.Editing = false
	}
}

// StartAdding clears any previous draft and opens the add form.
func (manager *Manager) StartAdding() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.draft = netreg.Device{}
	manager.adding = true
}

// SetDraft replaces the add-form draft.
func (manager *Manager) SetDraft(draft netreg.Device) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.draft = draft
}

// CancelAdding closes the add form without submitting.
func (manager *Manager) CancelAdding() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.adding = false
}

// ToggleEnable stages a copy of the item with Enabled flipped and
// submits it immediately. This is the one staging path that
// self-submits instead of waiting for the user to confirm an edit
// form.
func (manager *Manager) ToggleEnable(ctx context.Context, mac string) error {
	manager.mu.Lock()
	item := manager.find(mac)
	if item == nil {
		manager.mu.Unlock()
		return nil
	}
	item.Staged = netreg.Device{
		MAC:     item.MAC,
		Device:  item.Device.Device,
		Owner:   item.Owner,
		Enabled: !item.Enabled,
	}
	manager.mu.Unlock()

	return manager.UpdateDevice(ctx, mac)
}

// UpdateDevice submits the item's staged fields. On success the
// collection is reloaded and the success message set; on failure the
// collection is untouched (no reload) and the staged copy stays
// attached to the item.
func (manager *Manager) UpdateDevice(ctx context.Context, mac string) error {
	manager.mu.Lock()
	item := manager.find(mac)
	if item == nil {
		manager.mu.Unlock()
		return nil
	}
	staged := item.Staged
	manager.mu.Unlock()

	credential, _ := manager.store.Load()
	if _, err := manager.client.UpdateDevice(ctx, credential, mac, staged); err != nil {
		manager.fail(err)
		return err
	}

	manager.reloadAfterWrite(ctx, "Successfully updated device.")
	return nil
}

// AddDevice submits the add draft. The success message uses the
// server-confirmed device name from the response — the server
// sanitizes names, so the local draft may not match what was
// actually registered.
func (manager *Manager) AddDevice(ctx context.Context) error {
	manager.mu.Lock()
	draft := manager.draft
	manager.mu.Unlock()

	credential, _ := manager.store.Load()
	created, err := manager.client.AddDevice(ctx, credential, draft)
	if err != nil {
		manager.fail(err)
		return err
	}

	manager.reloadAfterWrite(ctx, "Successfully added "+created.Device)
	return nil
}

// DeleteDevice removes the device registered under mac. The success
// message uses the last-known local name: the item is gone from the
// authoritative source, so the local copy is all that's left to name
// it by.
func (manager *Manager) DeleteDevice(ctx context.Context, mac string) error {
	manager.mu.Lock()
	name := mac
	if item := manager.find(mac); item != nil {
		name = item.Device.Device
	}
	manager.mu.Unlock()

	credential, _ := manager.store.Load()
	if err := manager.client.DeleteDevice(ctx, credential, mac); err != nil {
		manager.fail(err)
		return err
	}

	manager.reloadAfterWrite(ctx, "Successfully deleted "+name)
	return nil
}

// reloadAfterWrite runs the unconditional post-mutation reload and
// then sets the operation's success message. A reload failure leaves
// its own error visible alongside the message, matching the
// operation's actual outcome: the write landed, the refresh did not.
func (manager *Manager) reloadAfterWrite(ctx context.Context, message string) {
	_ = manager.Load(ctx)

	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.message = message
}

// fail records the user-facing message for a failed operation: the
// server's explanation verbatim for a 4xx rejection, the generic
// retry message for everything else. The prior success message is
// cleared; the collection is left in its pre-operation state.
func (manager *Manager) fail(err error) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.message = ""
	if netreg.Rejected(err) {
		manager.errMessage = netreg.RejectedBody(err)
	} else {
		manager.errMessage = ServerErrorMessage
	}
}

// failLoad records the error for a failed load. Unlike mutations,
// load surfaces whatever body the server sent regardless of status;
// only bodiless failures (network errors) fall back to the generic
// message.
func (manager *Manager) failLoad(err error) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.message = ""
	var statusError *netreg.StatusError
	if errors.As(err, &statusError) {
		manager.errMessage = statusError.Body
	} else {
		manager.errMessage = ServerErrorMessage
	}
}

// find returns the item registered under mac. Caller holds mu.
func (manager *Manager) find(mac string) *Item {
	for i := range manager.items {
		if manager.items[i].MAC == mac {
			return &manager.items[i]
		}
	}
	return nil
}
