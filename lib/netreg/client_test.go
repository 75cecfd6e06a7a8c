// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netreg_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tortis/netregctl/lib/netreg"
	"github.com/tortis/netregctl/lib/netregtest"
	"github.com/tortis/netregctl/lib/session"
)

func TestLoginReturnsCredential(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.AddUser("alice", "hunter2", false)

	client := netreg.New(server.URL())
	credential, err := client.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The credential is the body verbatim: a decodable three-segment
	// token for the user who logged in.
	claims, err := session.Decode(credential)
	if err != nil {
		t.Fatalf("Decode returned credential: %v", err)
	}
	if claims.Contents.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Contents.Username)
	}
}

func TestLoginWrongPasswordIsRejected(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.AddUser("alice", "hunter2", false)

	client := netreg.New(server.URL())
	_, err := client.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if !netreg.Rejected(err) {
		t.Errorf("Rejected = false for 4xx login failure: %v", err)
	}
}

func TestLoginServerErrorIsNotRejected(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.FailNext(http.StatusInternalServerError, "boom")

	client := netreg.New(server.URL())
	_, err := client.Login(context.Background(), "alice", "hunter2")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if netreg.Rejected(err) {
		t.Errorf("Rejected = true for 500, want false: %v", err)
	}
}

func TestLoginNetworkFailureIsNotRejected(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	url := server.URL()
	server.Close()

	client := netreg.New(url)
	_, err := client.Login(context.Background(), "alice", "hunter2")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if netreg.Rejected(err) {
		t.Errorf("Rejected = true for network failure, want false: %v", err)
	}
}

func TestDevicesListsOwnDevices(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "alice", Device: "Printer", MAC: "aa:bb:cc:dd:ee:ff", Enabled: true})
	server.SeedDevice(netregtest.Device{Owner: "bob", Device: "Laptop", MAC: "11:22:33:44:55:66", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	devices, err := client.Devices(context.Background(), credential)
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1 (owner-scoped)", len(devices))
	}
	got := devices[0]
	if got.MAC != "aa:bb:cc:dd:ee:ff" || got.Device != "Printer" || got.Owner != "alice" || !got.Enabled {
		t.Errorf("device = %+v, want alice's printer", got)
	}
}

func TestDevicesAdminSeesAll(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "alice", Device: "Printer", MAC: "aa:bb:cc:dd:ee:ff", Enabled: true})
	server.SeedDevice(netregtest.Device{Owner: "bob", Device: "Laptop", MAC: "11:22:33:44:55:66", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("netregadmin", true, time.Now().Add(time.Hour))

	devices, err := client.Devices(context.Background(), credential)
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("got %d devices, want 2 for admin", len(devices))
	}
}

func TestDevicesExpiredCredentialRejected(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(-time.Minute))

	_, err := client.Devices(context.Background(), credential)
	if !netreg.Rejected(err) {
		t.Fatalf("Devices with expired credential: got %v, want a 4xx rejection", err)
	}
	if body := netreg.RejectedBody(err); body != "Token is expired" {
		t.Errorf("RejectedBody = %q, want the server's expiry message", body)
	}
}

func TestAddDeviceReturnsNormalizedCopy(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	created, err := client.AddDevice(context.Background(), credential, netreg.Device{
		MAC:    "AA:BB:CC:DD:EE:FF",
		Device: "My Printer!",
		Owner:  "someone-else",
	})
	if err != nil {
		t.Fatalf("AddDevice: %v", err)
	}

	// The server is authoritative: canonical MAC, sanitized name,
	// stamped owner, Enabled forced on.
	if created.MAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("MAC = %q, want canonical form", created.MAC)
	}
	if created.Device != "MyPrinter" {
		t.Errorf("Device = %q, want sanitized MyPrinter", created.Device)
	}
	if created.Owner != "alice" {
		t.Errorf("Owner = %q, want alice (stamped from session)", created.Owner)
	}
	if !created.Enabled {
		t.Error("Enabled = false, want true on registration")
	}
}

func TestAddDeviceDuplicateMAC(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "alice", Device: "Printer", MAC: "aa:bb:cc:dd:ee:ff", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	_, err := client.AddDevice(context.Background(), credential, netreg.Device{
		MAC:    "aa:bb:cc:dd:ee:ff",
		Device: "Copy",
	})
	if !netreg.Rejected(err) {
		t.Fatalf("duplicate add: got %v, want a 4xx rejection", err)
	}
	if body := netreg.RejectedBody(err); body != "This MAC address is already registered." {
		t.Errorf("RejectedBody = %q, want the duplicate message", body)
	}
}

func TestUpdateDevice(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "alice", Device: "Printer", MAC: "aa:bb:cc:dd:ee:ff", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	updated, err := client.UpdateDevice(context.Background(), credential, "aa:bb:cc:dd:ee:ff", netreg.Device{
		MAC:     "aa:bb:cc:dd:ee:ff",
		Device:  "Printer",
		Owner:   "alice",
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("UpdateDevice: %v", err)
	}
	if updated.Enabled {
		t.Error("Enabled = true after disable")
	}
	if updated.MAC != "aa:bb:cc:dd:ee:ff" || updated.Device != "Printer" {
		t.Errorf("updated = %+v, want identity fields unchanged", updated)
	}
}

func TestUpdateMissingDevice(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	_, err := client.UpdateDevice(context.Background(), credential, "aa:bb:cc:dd:ee:ff", netreg.Device{
		MAC: "aa:bb:cc:dd:ee:ff",
	})
	if !netreg.Rejected(err) {
		t.Fatalf("update of missing device: got %v, want a 4xx rejection", err)
	}
}

func TestDeleteDevice(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "alice", Device: "Printer", MAC: "aa:bb:cc:dd:ee:ff", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	if err := client.DeleteDevice(context.Background(), credential, "aa:bb:cc:dd:ee:ff"); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}

	devices, err := client.Devices(context.Background(), credential)
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices after delete, want 0", len(devices))
	}
}

func TestDeleteOtherOwnersDevice(t *testing.T) {
	t.Parallel()

	server := netregtest.NewServer(t)
	server.SeedDevice(netregtest.Device{Owner: "bob", Device: "Laptop", MAC: "11:22:33:44:55:66", Enabled: true})

	client := netreg.New(server.URL())
	credential := server.MintToken("alice", false, time.Now().Add(time.Hour))

	err := client.DeleteDevice(context.Background(), credential, "11:22:33:44:55:66")
	if !netreg.Rejected(err) {
		t.Fatalf("cross-owner delete: got %v, want a 4xx rejection", err)
	}
}
