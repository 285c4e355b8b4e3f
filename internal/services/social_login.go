package services

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "strconv"
  "time"
  "github.com/golang-jwt/jwt/v5"
  "github.com/qfeed/qfeed-backend/internal/apierr"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/utils"
)

const (
  SocialProviderKakao = "kakao"
  SocialProviderApple = "apple"

  appleTokenIssuer = "https://appleid.apple.com"
)

// SocialIdentity is the provider-scoped identity a login token resolves to.
type SocialIdentity struct {
  SocialID string
  Email    string
}

type SocialLoginClient interface {
  Exchange(ctx context.Context, provider, providerToken string) (*SocialIdentity, error)
}

type socialLoginClient struct {
  log           *logger.Logger
  httpClient    *http.Client
  kakaoUserURL  string
  appleClientID string
  appleKeys     *appleKeyStore
}

func NewSocialLoginClient(log *logger.Logger) SocialLoginClient {
  clientLog := log.With("service", "SocialLoginClient")
  kakaoUserURL := utils.GetEnv("KAKAO_USER_INFO_URL", "https://kapi.kakao.com/v2/user/me", log)
  appleJWKSURL := utils.GetEnv("APPLE_JWKS_URL", "https://appleid.apple.com/auth/keys", log)
  appleClientID := utils.GetEnv("APPLE_CLIENT_ID", "", log)
  httpClient := &http.Client{Timeout: 10 * time.Second}
  return &socialLoginClient{
    log:           clientLog,
    httpClient:    httpClient,
    kakaoUserURL:  kakaoUserURL,
    appleClientID: appleClientID,
    appleKeys:     newAppleKeyStore(httpClient, appleJWKSURL),
  }
}

func (sc *socialLoginClient) Exchange(ctx context.Context, provider, providerToken string) (*SocialIdentity, error) {
  switch provider {
  case SocialProviderKakao:
    return sc.exchangeKakao(ctx, providerToken)
  case SocialProviderApple:
    return sc.exchangeApple(ctx, providerToken)
  default:
    return nil, apierr.BadRequest(fmt.Sprintf("unsupported social provider [%s]", provider), nil)
  }
}

func (sc *socialLoginClient) exchangeKakao(ctx context.Context, accessToken string) (*SocialIdentity, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, sc.kakaoUserURL, nil)
  if err != nil {
    return nil, apierr.Internal("failed to build kakao request", err)
  }
  req.Header.Set("Authorization", "Bearer "+accessToken)

  resp, err := sc.httpClient.Do(req)
  if err != nil {
    return nil, apierr.Internal("kakao user info request failed", err)
  }
  defer resp.Body.Close()
  if resp.StatusCode != http.StatusOK {
    return nil, apierr.Unauthorized(fmt.Sprintf("kakao rejected token (%d)", resp.StatusCode), nil)
  }

  var body struct {
    ID           int64 `json:"id"`
    KakaoAccount struct {
      Email string `json:"email"`
    } `json:"kakao_account"`
  }
  if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
    return nil, apierr.Internal("failed to decode kakao user info", err)
  }
  if body.ID == 0 {
    return nil, apierr.Unauthorized("kakao user info missing id", nil)
  }
  return &SocialIdentity{
    SocialID: "kakao:" + strconv.FormatInt(body.ID, 10),
    Email:    body.KakaoAccount.Email,
  }, nil
}

// exchangeApple verifies an Apple identity token against Apple's published
// signing keys and extracts the subject. The audience check only runs when
// APPLE_CLIENT_ID is configured.
func (sc *socialLoginClient) exchangeApple(ctx context.Context, identityToken string) (*SocialIdentity, error) {
  keyfunc := func(token *jwt.Token) (any, error) {
    kid, _ := token.Header["kid"].(string)
    if kid == "" {
      return nil, fmt.Errorf("identity token has no kid header")
    }
    return sc.appleKeys.Get(ctx, kid)
  }
  opts := []jwt.ParserOption{
    jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
    jwt.WithIssuer(appleTokenIssuer),
    jwt.WithExpirationRequired(),
  }
  if sc.appleClientID != "" {
    opts = append(opts, jwt.WithAudience(sc.appleClientID))
  }
  claims := jwt.MapClaims{}
  if _, err := jwt.ParseWithClaims(identityToken, claims, keyfunc, opts...); err != nil {
    return nil, apierr.Unauthorized("invalid apple identity token", err)
  }
  sub, _ := claims["sub"].(string)
  if sub == "" {
    return nil, apierr.Unauthorized("apple identity token missing subject", nil)
  }
  email, _ := claims["email"].(string)
  return &SocialIdentity{
    SocialID: "apple:" + sub,
    Email:    email,
  }, nil
}
