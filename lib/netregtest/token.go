// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package netregtest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// jwtHeader is the fixed first segment the server emits, already
// base64-encoded.
var jwtHeader = base64.URLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// tokenClaims is the wire shape of the credential's middle segment.
type tokenClaims struct {
	Contents map[string]string `json:"contents"`
	Exp      int64             `json:"exp"`
}

var (
	errMalformedToken = errors.New("token does not contain header, body, and signature only")
	errInvalidSig     = errors.New("token signature is not valid")
	errExpiredToken   = errors.New("token is expired")
)

// MintToken signs a credential for username with the given signing
// key, matching the server's token format byte for byte. Admin
// sessions carry the admin claim set to "yes"; others omit it.
func MintToken(key []byte, username string, admin bool, expiresAt time.Time) string {
	contents := map[string]string{"username": username}
	if admin {
		contents["admin"] = "yes"
	}
	payload, err := json.Marshal(tokenClaims{Contents: contents, Exp: expiresAt.Unix()})
	if err != nil {
		// Claims are maps of strings; marshaling cannot fail.
		panic(fmt.Sprintf("netregtest: marshal claims: %v", err))
	}

	signed := jwtHeader + "." + base64.URLEncoding.EncodeToString(payload)
	return signed + "." + signSegment(key, signed)
}

// validateToken checks the signature and expiry of a credential and
// returns its claims.
func validateToken(key []byte, credential string) (*tokenClaims, error) {
	segments := strings.Split(credential, ".")
	if len(segments) != 3 {
		return nil, errMalformedToken
	}

	expected := signSegment(key, segments[0]+"."+segments[1])
	if !hmac.Equal([]byte(expected), []byte(segments[2])) {
		return nil, errInvalidSig
	}

	payload, err := base64.URLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, errMalformedToken
	}
	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errMalformedToken
	}

	if claims.Exp < time.Now().Unix() {
		return nil, errExpiredToken
	}
	return &claims, nil
}

// signSegment computes the base64 HMAC-SHA256 signature over the
// header.payload prefix.
func signSegment(key []byte, signed string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signed))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
