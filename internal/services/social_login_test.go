package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newAppleTestClient(t *testing.T, jwksURL, clientID string) *socialLoginClient {
	t.Helper()
	httpClient := &http.Client{Timeout: time.Second}
	return &socialLoginClient{
		log:           newTestLogger(),
		httpClient:    httpClient,
		appleClientID: clientID,
		appleKeys:     newAppleKeyStore(httpClient, jwksURL),
	}
}

func newAppleSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate signing key: %v", err)
	}
	return key
}

func newAppleJWKSServer(t *testing.T, kid string, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwks := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signAppleToken(t *testing.T, kid string, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func appleTestClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   "https://appleid.apple.com",
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestAppleLogin_AcceptsTokenSignedByPublishedKey(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "")

	token := signAppleToken(t, "key-1", key, appleTestClaims("subject-1"))
	identity, err := client.Exchange(context.Background(), "apple", token)
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if identity.SocialID != "apple:subject-1" {
		t.Fatalf("expected apple:subject-1, got %q", identity.SocialID)
	}
	if identity.Email != "subject-1@example.com" {
		t.Fatalf("unexpected email %q", identity.Email)
	}
}

func TestAppleLogin_RejectsTokenWithForgedSignature(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "")

	// Symmetric signature minted without Apple's private key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, appleTestClaims("victim-subject"))
	forged.Header["kid"] = "key-1"
	signed, err := forged.SignedString([]byte("any-key-at-all"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	_, err = client.Exchange(context.Background(), "apple", signed)
	wantStatus(t, err, http.StatusUnauthorized)

	// RS256 but signed with a key Apple never published.
	impostor := newAppleSigningKey(t)
	_, err = client.Exchange(context.Background(), "apple",
		signAppleToken(t, "key-1", impostor, appleTestClaims("victim-subject")))
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestAppleLogin_RejectsExpiredToken(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "")

	claims := appleTestClaims("subject-1")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err := client.Exchange(context.Background(), "apple", signAppleToken(t, "key-1", key, claims))
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestAppleLogin_RejectsWrongIssuer(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "")

	claims := appleTestClaims("subject-1")
	claims["iss"] = "https://evil.example.com"
	_, err := client.Exchange(context.Background(), "apple", signAppleToken(t, "key-1", key, claims))
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestAppleLogin_ChecksAudienceWhenConfigured(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "com.qfeed.app")

	claims := appleTestClaims("subject-1")
	claims["aud"] = "com.other.app"
	_, err := client.Exchange(context.Background(), "apple", signAppleToken(t, "key-1", key, claims))
	wantStatus(t, err, http.StatusUnauthorized)

	claims["aud"] = "com.qfeed.app"
	identity, err := client.Exchange(context.Background(), "apple", signAppleToken(t, "key-1", key, claims))
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if identity.SocialID != "apple:subject-1" {
		t.Fatalf("expected apple:subject-1, got %q", identity.SocialID)
	}
}

func TestAppleLogin_RejectsUnknownKid(t *testing.T) {
	key := newAppleSigningKey(t)
	srv := newAppleJWKSServer(t, "key-1", key)
	client := newAppleTestClient(t, srv.URL, "")

	_, err := client.Exchange(context.Background(), "apple",
		signAppleToken(t, "key-rotated-away", key, appleTestClaims("subject-1")))
	wantStatus(t, err, http.StatusUnauthorized)
}
