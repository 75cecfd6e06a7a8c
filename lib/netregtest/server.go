// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netregtest

import (
	"crypto/rand"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Device mirrors the server's device record, including the derived
// Name field ("owner-device") that the real server computes and
// returns but the client ignores.
type Device struct {
	Name    string
	Owner   string
	Device  string
	MAC     string
	Enabled bool
}

// deviceNamePattern strips everything outside [0-9a-zA-Z-] from
// submitted device names, as the real server does.
var deviceNamePattern = regexp.MustCompile(`[^0-9a-zA-Z\-]`)

// tokenLifetime matches the six-hour expiry the server mints.
const tokenLifetime = 6 * time.Hour

type userRecord struct {
	passwordHash []byte
	admin        bool
}

// Server is an in-memory netreg server for tests.
type Server struct {
	httpServer *httptest.Server
	key        []byte

	mu      sync.Mutex
	users   map[string]userRecord
	devices []*Device

	forcedStatus int
	forcedBody   string
}

// NewServer starts a test netreg server with a random signing key and
// no users or devices. The server is shut down when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("netregtest: generating signing key: %v", err)
	}

	server := &Server{
		key:   key,
		users: make(map[string]userRecord),
	}

	router := mux.NewRouter()
	router.HandleFunc("/login", server.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/devices", server.handleList).Methods(http.MethodGet)
	router.HandleFunc("/devices", server.handleAdd).Methods(http.MethodPost)
	router.HandleFunc("/devices/{did}", server.handleUpdate).Methods(http.MethodPut)
	router.HandleFunc("/devices/{did}", server.handleRemove).Methods(http.MethodDelete)

	server.httpServer = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if status, body, forced := server.takeForcedResponse(); forced {
			http.Error(writer, body, status)
			return
		}
		router.ServeHTTP(writer, request)
	}))
	t.Cleanup(server.httpServer.Close)

	return server
}

// URL returns the server's base URL.
func (server *Server) URL() string {
	return server.httpServer.URL
}

// Close shuts the server down immediately. Useful for tests that need
// a network failure; otherwise cleanup handles it.
func (server *Server) Close() {
	server.httpServer.Close()
}

// AddUser registers a login. The password is stored bcrypt-hashed.
func (server *Server) AddUser(username, password string, admin bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("netregtest: hashing password: " + err.Error())
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	server.users[username] = userRecord{passwordHash: hash, admin: admin}
}

// SeedDevice inserts a device directly, bypassing the add handler's
// normalization. The Name field is derived if empty.
func (server *Server) SeedDevice(device Device) {
	if device.Name == "" {
		device.Name = device.Owner + "-" + device.Device
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	server.devices = append(server.devices, &device)
}

// Devices returns a snapshot of the registered devices for assertions.
func (server *Server) Devices() []Device {
	server.mu.Lock()
	defer server.mu.Unlock()
	snapshot := make([]Device, len(server.devices))
	for i, device := range server.devices {
		snapshot[i] = *device
	}
	return snapshot
}

// MintToken signs a credential the server will accept, without going
// through the login handler. Used to construct expired or
// about-to-expire sessions.
func (server *Server) MintToken(username string, admin bool, expiresAt time.Time) string {
	return MintToken(server.key, username, admin, expiresAt)
}

// FailNext makes the next request (any route) return the given status
// and body, then restores normal behavior. Used to simulate a 5xx
// outage.
func (server *Server) FailNext(status int, body string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.forcedStatus = status
	server.forcedBody = body
}

func (server *Server) takeForcedResponse() (int, string, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	if server.forcedStatus == 0 {
		return 0, "", false
	}
	status, body := server.forcedStatus, server.forcedBody
	server.forcedStatus, server.forcedBody = 0, ""
	return status, body, true
}

func (server *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	username := request.FormValue("username")
	password := request.FormValue("password")

	server.mu.Lock()
	record, ok := server.users[username]
	server.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(record.passwordHash, []byte(password)) != nil {
		http.Error(writer, "Incorrect username or password", http.StatusBadRequest)
		return
	}

	token := MintToken(server.key, username, record.admin, time.Now().Add(tokenLifetime))
	writer.Write([]byte(token))
}

// authorize validates the Authorization header and writes the 4xx the
// real server produces on failure. Returns nil when the response has
// already been written.
func (server *Server) authorize(writer http.ResponseWriter, request *http.Request) *tokenClaims {
	claims, err := validateToken(server.key, request.Header.Get("Authorization"))
	if err != nil {
		if err == errExpiredToken {
			http.Error(writer, "Token is expired", http.StatusBadRequest)
		} else {
			http.Error(writer, "Invalid token", http.StatusBadRequest)
		}
		return nil
	}
	return claims
}

func (server *Server) handleList(writer http.ResponseWriter, request *http.Request) {
	claims := server.authorize(writer, request)
	if claims == nil {
		return
	}

	server.mu.Lock()
	var devices []*Device
	for _, device := range server.devices {
		if claims.Contents["admin"] == "yes" || device.Owner == claims.Contents["username"] {
			devices = append(devices, device)
		}
	}
	server.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	if devices == nil {
		devices = []*Device{}
	}
	json.NewEncoder(writer).Encode(devices)
}

func (server *Server) handleAdd(writer http.ResponseWriter, request *http.Request) {
	claims := server.authorize(writer, request)
	if claims == nil {
		return
	}

	var submitted Device
	if err := json.NewDecoder(request.Body).Decode(&submitted); err != nil {
		http.Error(writer, "Unable to parse request.", http.StatusBadRequest)
		return
	}

	hardwareAddress, err := net.ParseMAC(submitted.MAC)
	if err != nil {
		http.Error(writer, "Could not parse MAC address.", http.StatusBadRequest)
		return
	}
	submitted.MAC = hardwareAddress.String()
	submitted.Device = deviceNamePattern.ReplaceAllString(submitted.Device, "")
	if claims.Contents["admin"] != "yes" {
		submitted.Owner = claims.Contents["username"]
	}
	submitted.Name = submitted.Owner + "-" + submitted.Device
	submitted.Enabled = true

	server.mu.Lock()
	if server.find(submitted.MAC) != nil {
		server.mu.Unlock()
		http.Error(writer, "This MAC address is already registered.", http.StatusBadRequest)
		return
	}
	server.devices = append(server.devices, &submitted)
	server.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&submitted)
}

func (server *Server) handleUpdate(writer http.ResponseWriter, request *http.Request) {
	claims := server.authorize(writer, request)
	if claims == nil {
		return
	}

	previousMAC := mux.Vars(request)["did"]

	server.mu.Lock()
	previous := server.find(previousMAC)
	server.mu.Unlock()
	if previous == nil {
		http.Error(writer, "Device does not exist.", http.StatusBadRequest)
		return
	}

	var changed Device
	if err := json.NewDecoder(request.Body).Decode(&changed); err != nil {
		http.Error(writer, "Unable to parse request.", http.StatusBadRequest)
		return
	}

	hardwareAddress, err := net.ParseMAC(changed.MAC)
	if err != nil {
		http.Error(writer, "Could not parse MAC address.", http.StatusBadRequest)
		return
	}
	changed.MAC = hardwareAddress.String()
	changed.Device = deviceNamePattern.ReplaceAllString(changed.Device, "")
	changed.Owner = previous.Owner
	changed.Name = changed.Owner + "-" + changed.Device

	server.mu.Lock()
	if previousMAC == changed.MAC {
		*previous = changed
	} else {
		if server.find(changed.MAC) != nil {
			server.mu.Unlock()
			http.Error(writer, "This MAC address is already registered.", http.StatusBadRequest)
			return
		}
		server.remove(previousMAC)
		server.devices = append(server.devices, &changed)
	}
	server.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(&changed)
}

func (server *Server) handleRemove(writer http.ResponseWriter, request *http.Request) {
	claims := server.authorize(writer, request)
	if claims == nil {
		return
	}

	mac := mux.Vars(request)["did"]

	server.mu.Lock()
	device := server.find(mac)
	// The real server hides devices the caller does not own behind
	// the same "no such device" rejection it uses for absent MACs.
	if device == nil ||
		(claims.Contents["username"] != device.Owner && claims.Contents["admin"] != "yes") {
		server.mu.Unlock()
		http.Error(writer, "No such device exists.", http.StatusBadRequest)
		return
	}
	server.remove(mac)
	server.mu.Unlock()

	writer.Write([]byte("Device removed successfully."))
}

// find returns the device registered under mac. Caller holds mu.
func (server *Server) find(mac string) *Device {
	for _, device := range server.devices {
		if device.MAC == mac {
			return device
		}
	}
	return nil
}

// remove deletes the device registered under mac. Caller holds mu.
func (server *Server) remove(mac string) {
	for i, device := range server.devices {
		if device.MAC == mac {
			server.devices = append(server.devices[:i], server.devices[i+1:]...)
			return
		}
	}
}
