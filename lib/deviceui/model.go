// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package deviceui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tortis/netregctl/lib/devices"
	"github.com/tortis/netregctl/lib/netreg"
	"github.com/tortis/netregctl/lib/session"
	"github.com/tortis/netregctl/lib/tui"
)

// View identifies which screen is active.
type View int

const (
	// ViewLogin is the unauthenticated entry view.
	ViewLogin View = iota
	// ViewDevices is the protected device table.
	ViewDevices
)

// FocusRegion identifies where keyboard input routes inside the
// devices view.
type FocusRegion int

const (
	// FocusTable means navigation keys move the device cursor.
	FocusTable FocusRegion = iota
	// FocusEditForm means keystrokes go to the inline edit inputs.
	FocusEditForm
	// FocusAddForm means keystrokes go to the add-device inputs.
	FocusAddForm
)

// loginResultMsg is sent when an asynchronous login completes.
type loginResultMsg struct {
	credential string
	err        error
}

// syncMsg is sent when an asynchronous collection operation (load or
// mutation plus its trailing reload) completes. The snapshot is the
// manager state after the operation; generation is the view
// activation that dispatched it.
type syncMsg struct {
	snapshot   devices.Snapshot
	generation uint64
	err        error
}

// statusFadeMsg clears the status bar after a delay. seq identifies
// the notice the tick was scheduled for; a tick for a superseded
// notice must not clear the current one.
type statusFadeMsg struct {
	seq int
}

// statusFadeDelay is how long success and error notices stay visible.
const statusFadeDelay = 5 * time.Second

// Model is the bubbletea model for the netreg terminal UI.
type Model struct {
	client  *netreg.Client
	store   *session.Store
	manager *devices.Manager
	timeout time.Duration
	theme   tui.Theme
	keys    KeyMap

	view   View
	width  int
	height int
	ready  bool

	// Login view.
	username   textinput.Model
	password   textinput.Model
	loginFocus int
	loginErr   string

	// Devices view.
	identity   session.Identity
	snapshot   devices.Snapshot
	cursor     int
	focus      FocusRegion
	generation uint64
	noticeSeq  int
	busy       bool
	spin       spinner.Model

	// Inline edit form.
	editingMAC string
	editName   textinput.Model
	editOwner  textinput.Model
	editFocus  int

	// Add form.
	addMAC   textinput.Model
	addName  textinput.Model
	addOwner textinput.Model
	addFocus int
}

// New builds the UI model. The session guard runs here: a valid
// stored credential opens directly on the devices view, anything else
// lands on login. The timeout bounds each network request the UI
// issues.
func New(client *netreg.Client, store *session.Store, timeout time.Duration) Model {
	model := Model{
		client:  client,
		store:   store,
		manager: devices.NewManager(client, store),
		timeout: timeout,
		theme:   tui.DefaultTheme(),
		keys:    DefaultKeyMap,
		view:    ViewLogin,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	model.username = textinput.New()
	model.username.Placeholder = "username"
	model.username.Focus()
	model.password = textinput.New()
	model.password.Placeholder = "password"
	model.password.EchoMode = textinput.EchoPassword
	model.password.EchoCharacter = '•'

	model.editName = textinput.New()
	model.editOwner = textinput.New()
	model.addMAC = textinput.New()
	model.addMAC.Placeholder = "aa:bb:cc:dd:ee:ff"
	model.addName = textinput.New()
	model.addName.Placeholder = "device name"
	model.addOwner = textinput.New()
	model.addOwner.Placeholder = "owner (admin only)"

	if identity, err := store.Identity(time.Now()); err == nil {
		model.view = ViewDevices
		model.identity = *identity
		model.generation = model.manager.Activate()
		model.busy = true
	}
	return model
}

// Init starts the initial load when the guard admitted the session,
// or cursor blinking on the login form otherwise.
func (model Model) Init() tea.Cmd {
	if model.view == ViewDevices {
		return tea.Batch(model.loadCmd(), model.spin.Tick)
	}
	return textinput.Blink
}

// Update handles all messages.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		return model, nil

	case spinner.TickMsg:
		if !model.busy {
			return model, nil
		}
		var cmd tea.Cmd
		model.spin, cmd = model.spin.Update(message)
		return model, cmd

	case loginResultMsg:
		return model.handleLoginResult(message)

	case syncMsg:
		return model.handleSync(message)

	case statusFadeMsg:
		if message.seq != model.noticeSeq {
			return model, nil
		}
		model.snapshot.Message = ""
		model.snapshot.Err = ""
		return model, nil

	case tea.KeyMsg:
		if model.view == ViewLogin {
			return model.handleLoginKeys(message)
		}
		return model.handleDevicesKeys(message)
	}
	return model, nil
}

// handleLoginResult processes a completed login attempt. A 4xx means
// the credentials were rejected; anything else is a service problem.
// Neither stores a credential or leaves the login view.
func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	model.busy = false
	if message.err != nil {
		if netreg.Rejected(message.err) {
			model.loginErr = "Incorrect username or password."
		} else {
			model.loginErr = devices.ServerErrorMessage
		}
		return model, nil
	}

	if err := model.store.Save(message.credential); err != nil {
		model.loginErr = devices.ServerErrorMessage
		return model, nil
	}
	identity, err := model.store.Identity(time.Now())
	if err != nil {
		// The server handed back something the guard cannot decode.
		model.loginErr = devices.ServerErrorMessage
		return model, nil
	}

	model.loginErr = ""
	model.password.SetValue("")
	cmd := (&model).enterDevices(*identity)
	return model, cmd
}

// handleSync applies a completed collection operation. Results from a
// previous view activation are stale — the view that requested them
// is gone — and are dropped without touching state.
func (model Model) handleSync(message syncMsg) (tea.Model, tea.Cmd) {
	if message.generation != model.generation {
		return model, nil
	}

	model.busy = false
	model.snapshot = message.snapshot
	if model.cursor >= len(model.snapshot.Items) {
		model.cursor = len(model.snapshot.Items) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}

	// A successful write's reload discards the staging that owned the
	// form focus; follow it back to the table. A failed write leaves
	// the form (and its staged values) in place for a retry.
	if model.focus == FocusEditForm && !model.selectedEditing() {
		model.focus = FocusTable
	}
	if model.focus == FocusAddForm && !model.snapshot.Adding {
		model.focus = FocusTable
	}

	if model.snapshot.Message != "" || model.snapshot.Err != "" {
		model.noticeSeq++
		seq := model.noticeSeq
		return model, tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
			return statusFadeMsg{seq: seq}
		})
	}
	return model, nil
}

// selectedEditing reports whether the item the edit form targets is
// still flagged as editing.
func (model *Model) selectedEditing() bool {
	for _, item := range model.snapshot.Items {
		if item.MAC == model.editingMAC {
			return item.Editing
		}
	}
	return false
}

// handleLoginKeys processes keyboard input on the login form.
func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.NextField),
		key.Matches(message, model.keys.Up),
		key.Matches(message, model.keys.Down):
		// j/k are typable characters here; only tab and arrows move.
		if message.Type != tea.KeyTab && message.Type != tea.KeyUp && message.Type != tea.KeyDown {
			break
		}
		model.loginFocus = (model.loginFocus + 1) % 2
		if model.loginFocus == 0 {
			model.username.Focus()
			model.password.Blur()
		} else {
			model.password.Focus()
			model.username.Blur()
		}
		return model, textinput.Blink

	case key.Matches(message, model.keys.Submit):
		if model.username.Value() == "" {
			return model, nil
		}
		model.busy = true
		return model, tea.Batch(
			model.loginCmd(model.username.Value(), model.password.Value()),
			model.spin.Tick,
		)
	}

	var cmd tea.Cmd
	if model.loginFocus == 0 {
		model.username, cmd = model.username.Update(message)
	} else {
		model.password, cmd = model.password.Update(message)
	}
	return model, cmd
}

// handleDevicesKeys routes keyboard input in the devices view by
// focus region.
func (model Model) handleDevicesKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.focus {
	case FocusEditForm:
		return model.handleEditFormKeys(message)
	case FocusAddForm:
		return model.handleAddFormKeys(message)
	}
	return model.handleTableKeys(message)
}

func (model Model) handleTableKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.snapshot.Items)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Reload):
		model.busy = true
		return model, tea.Batch(model.loadCmd(), model.spin.Tick)

	case key.Matches(message, model.keys.Edit):
		item, ok := model.selectedItem()
		if !ok {
			break
		}
		model.manager.StartEditing(item.MAC)
		model.snapshot = model.manager.Snapshot()
		model.editingMAC = item.MAC
		model.editName.SetValue(item.Device.Device)
		model.editOwner.SetValue(item.Owner)
		model.editFocus = 0
		model.editName.Focus()
		model.editOwner.Blur()
		model.focus = FocusEditForm
		return model, textinput.Blink

	case key.Matches(message, model.keys.Toggle):
		item, ok := model.selectedItem()
		if !ok {
			break
		}
		mac := item.MAC
		model.busy = true
		return model, tea.Batch(
			model.syncCmd(func(ctx context.Context) error {
				return model.manager.ToggleEnable(ctx, mac)
			}),
			model.spin.Tick,
		)

	case key.Matches(message, model.keys.Add):
		model.manager.StartAdding()
		model.snapshot = model.manager.Snapshot()
		model.addMAC.SetValue("")
		model.addName.SetValue("")
		model.addOwner.SetValue("")
		model.addFocus = 0
		model.addMAC.Focus()
		model.addName.Blur()
		model.addOwner.Blur()
		model.focus = FocusAddForm
		return model, textinput.Blink

	case key.Matches(message, model.keys.Delete):
		item, ok := model.selectedItem()
		if !ok {
			break
		}
		mac := item.MAC
		model.busy = true
		return model, tea.Batch(
			model.syncCmd(func(ctx context.Context) error {
				return model.manager.DeleteDevice(ctx, mac)
			}),
			model.spin.Tick,
		)

	case key.Matches(message, model.keys.Logout):
		cmd := (&model).logout()
		return model, cmd
	}
	return model, nil
}

func (model Model) handleEditFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.Cancel):
		model.manager.CancelEditing(model.editingMAC)
		model.snapshot = model.manager.Snapshot()
		model.focus = FocusTable
		return model, nil

	case key.Matches(message, model.keys.NextField):
		model.editFocus = (model.editFocus + 1) % 2
		if model.editFocus == 0 {
			model.editName.Focus()
			model.editOwner.Blur()
		} else {
			model.editOwner.Focus()
			model.editName.Blur()
		}
		return model, textinput.Blink

	case key.Matches(message, model.keys.Submit):
		mac := model.editingMAC
		staged := netreg.Device{
			MAC:     mac,
			Device:  model.editName.Value(),
			Owner:   model.editOwner.Value(),
			Enabled: model.stagedEnabled(mac),
		}
		model.manager.SetStaged(mac, staged)
		model.busy = true
		return model, tea.Batch(
			model.syncCmd(func(ctx context.Context) error {
				return model.manager.UpdateDevice(ctx, mac)
			}),
			model.spin.Tick,
		)
	}

	var cmd tea.Cmd
	if model.editFocus == 0 {
		model.editName, cmd = model.editName.Update(message)
	} else {
		model.editOwner, cmd = model.editOwner.Update(message)
	}
	return model, cmd
}

func (model Model) handleAddFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.Cancel):
		model.manager.CancelAdding()
		model.snapshot = model.manager.Snapshot()
		model.focus = FocusTable
		return model, nil

	case key.Matches(message, model.keys.NextField):
		model.addFocus = (model.addFocus + 1) % 3
		inputs := []*textinput.Model{&model.addMAC, &model.addName, &model.addOwner}
		for i, input := range inputs {
			if i == model.addFocus {
				input.Focus()
			} else {
				input.Blur()
			}
		}
		return model, textinput.Blink

	case key.Matches(message, model.keys.Submit):
		model.manager.SetDraft(netreg.Device{
			MAC:    model.addMAC.Value(),
			Device: model.addName.Value(),
			Owner:  model.addOwner.Value(),
		})
		model.busy = true
		return model, tea.Batch(
			model.syncCmd(model.manager.AddDevice),
			model.spin.Tick,
		)
	}

	var cmd tea.Cmd
	switch model.addFocus {
	case 0:
		model.addMAC, cmd = model.addMAC.Update(message)
	case 1:
		model.addName, cmd = model.addName.Update(message)
	default:
		model.addOwner, cmd = model.addOwner.Update(message)
	}
	return model, cmd
}

// enterDevices switches to the protected view under a fresh
// activation generation and kicks off the initial load.
func (model *Model) enterDevices(identity session.Identity) tea.Cmd {
	model.view = ViewDevices
	model.identity = identity
	model.focus = FocusTable
	model.cursor = 0
	model.snapshot = devices.Snapshot{}
	model.generation = model.manager.Activate()
	model.busy = true
	return tea.Batch(model.loadCmd(), model.spin.Tick)
}

// logout clears the stored credential and returns to the login view.
// Bumping the activation generation orphans any in-flight request so
// its late result cannot repopulate the view.
func (model *Model) logout() tea.Cmd {
	_ = model.store.Clear()
	model.generation = model.manager.Activate()
	model.view = ViewLogin
	model.busy = false
	model.loginErr = ""
	model.loginFocus = 0
	model.username.SetValue("")
	model.password.SetValue("")
	model.username.Focus()
	model.password.Blur()
	return textinput.Blink
}

// selectedItem returns the item under the cursor.
func (model *Model) selectedItem() (devices.Item, bool) {
	if model.cursor < 0 || model.cursor >= len(model.snapshot.Items) {
		return devices.Item{}, false
	}
	return model.snapshot.Items[model.cursor], true
}

// stagedEnabled returns the staged Enabled flag for the item being
// edited. The edit form has no enabled field — that is the toggle
// key's job — so the submit payload carries the value snapshotted at
// StartEditing.
func (model *Model) stagedEnabled(mac string) bool {
	for _, item := range model.snapshot.Items {
		if item.MAC == mac {
			return item.Staged.Enabled
		}
	}
	return false
}

// loginCmd performs the login call off the UI goroutine.
func (model Model) loginCmd(username, password string) tea.Cmd {
	client, timeout := model.client, model.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		credential, err := client.Login(ctx, username, password)
		return loginResultMsg{credential: credential, err: err}
	}
}

// loadCmd fetches the device list off the UI goroutine.
func (model Model) loadCmd() tea.Cmd {
	return model.syncCmd(model.manager.Load)
}

// syncCmd runs a collection operation off the UI goroutine and
// reports the resulting snapshot, tagged with the generation that
// dispatched it.
func (model Model) syncCmd(operation func(context.Context) error) tea.Cmd {
	manager, timeout, generation := model.manager, model.timeout, model.generation
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := operation(ctx)
		return syncMsg{snapshot: manager.Snapshot(), generation: generation, err: err}
	}
}
