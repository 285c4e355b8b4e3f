package services

import (
  "context"
  "crypto/rsa"
  "encoding/base64"
  "encoding/json"
  "fmt"
  "math/big"
  "net/http"
  "sync"
)

// appleKeyStore caches Apple's published signing keys by kid. Apple rotates
// keys, so a cache miss triggers a refetch before the lookup fails.
type appleKeyStore struct {
  httpClient *http.Client
  jwksURL    string

  mu   sync.Mutex
  keys map[string]*rsa.PublicKey
}

func newAppleKeyStore(httpClient *http.Client, jwksURL string) *appleKeyStore {
  return &appleKeyStore{httpClient: httpClient, jwksURL: jwksURL}
}

func (ks *appleKeyStore) Get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
  ks.mu.Lock()
  defer ks.mu.Unlock()
  if key, ok := ks.keys[kid]; ok {
    return key, nil
  }
  if err := ks.refreshLocked(ctx); err != nil {
    return nil, err
  }
  key, ok := ks.keys[kid]
  if !ok {
    return nil, fmt.Errorf("no apple signing key for kid %q", kid)
  }
  return key, nil
}

func (ks *appleKeyStore) refreshLocked(ctx context.Context) error {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.jwksURL, nil)
  if err != nil {
    return fmt.Errorf("failed to build apple jwks request: %w", err)
  }
  resp, err := ks.httpClient.Do(req)
  if err != nil {
    return fmt.Errorf("apple jwks request failed: %w", err)
  }
  defer resp.Body.Close()
  if resp.StatusCode != http.StatusOK {
    return fmt.Errorf("apple jwks endpoint returned %d", resp.StatusCode)
  }

  var body struct {
    Keys []struct {
      Kty string `json:"kty"`
      Kid string `json:"kid"`
      N   string `json:"n"`
      E   string `json:"e"`
    } `json:"keys"`
  }
  if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
    return fmt.Errorf("failed to decode apple jwks: %w", err)
  }

  keys := make(map[string]*rsa.PublicKey, len(body.Keys))
  for _, k := range body.Keys {
    if k.Kty != "RSA" || k.Kid == "" {
      continue
    }
    n, err := base64.RawURLEncoding.DecodeString(k.N)
    if err != nil {
      continue
    }
    e, err := base64.RawURLEncoding.DecodeString(k.E)
    if err != nil {
      continue
    }
    keys[k.Kid] = &rsa.PublicKey{
      N: new(big.Int).SetBytes(n),
      E: int(new(big.Int).SetBytes(e).Int64()),
    }
  }
  if len(keys) == 0 {
    return fmt.Errorf("apple jwks contained no usable RSA keys")
  }
  ks.keys = keys
  return nil
}
