// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package netreg provides a typed HTTP client for the netreg device
// registration API: login plus list/add/update/delete of registered
// devices.
//
// The client mirrors the server's wire format with its own types and
// consumes the API as a fixed contract — login verification, device
// persistence, and authorization all happen server-side. Device
// operations take the raw session credential and attach it as the
// Authorization header; callers are expected to have passed the
// session guard first, so an invalid credential here surfaces as a
// 4xx rejection from the server rather than a local check.
package netreg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/tortis/netregctl/lib/netutil"
)

// Client is a typed HTTP client for the netreg API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Client for the netreg server at baseURL (e.g.
// "http://localhost:3000"). No request timeout is set on the client;
// callers bound individual operations with their context.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server base URL this client was configured with.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Login authenticates with a form-encoded POST to /login and returns
// the response body verbatim as the session credential. A 4xx response
// means the credentials were rejected (check with Rejected); any other
// failure means the service is unavailable. Login never retries.
func (client *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		client.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", &StatusError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	credential, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return "", fmt.Errorf("login: reading credential: %w", err)
	}
	if len(credential) == 0 {
		return "", fmt.Errorf("login: server returned an empty credential")
	}
	return string(credential), nil
}

// Devices returns the registered device list visible to the session.
// Admin sessions see every device; others see their own.
func (client *Client) Devices(ctx context.Context, credential string) ([]Device, error) {
	response, err := client.do(ctx, http.MethodGet, "/devices", credential, nil)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	var devices []Device
	if err := netutil.DecodeResponse(response.Body, &devices); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// AddDevice registers a new device and returns the created device as
// the server normalized it (canonical MAC, sanitized name, stamped
// owner, Enabled forced on). The server's copy is authoritative — use
// it, not the submitted draft, for any confirmation message.
func (client *Client) AddDevice(ctx context.Context, credential string, draft Device) (*Device, error) {
	response, err := client.do(ctx, http.MethodPost, "/devices", credential, draft)
	if err != nil {
		return nil, fmt.Errorf("add device: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	var created Device
	if err := netutil.DecodeResponse(response.Body, &created); err != nil {
		return nil, fmt.Errorf("add device: %w", err)
	}
	return &created, nil
}

// UpdateDevice replaces the device registered under mac with the
// staged fields and returns the server's normalized copy.
func (client *Client) UpdateDevice(ctx context.Context, credential string, mac string, staged Device) (*Device, error) {
	response, err := client.do(ctx, http.MethodPut, "/devices/"+url.PathEscape(mac), credential, staged)
	if err != nil {
		return nil, fmt.Errorf("update device %s: %w", mac, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	var updated Device
	if err := netutil.DecodeResponse(response.Body, &updated); err != nil {
		return nil, fmt.Errorf("update device %s: %w", mac, err)
	}
	return &updated, nil
}

// DeleteDevice removes the device registered under mac.
func (client *Client) DeleteDevice(ctx context.Context, credential string, mac string) error {
	response, err := client.do(ctx, http.MethodDelete, "/devices/"+url.PathEscape(mac), credential, nil)
	if err != nil {
		return fmt.Errorf("delete device %s: %w", mac, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}
	return nil
}

// do issues an authorized request. The credential rides in the
// Authorization header exactly as stored (the server expects the raw
// token, no scheme prefix). Each request carries a fresh X-Request-ID
// for correlating client operations with server logs.
func (client *Client) do(ctx context.Context, method, path, credential string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", credential)
	request.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return client.httpClient.Do(request)
}
