package requestdata

import (
  "context"
  "github.com/google/uuid"
)

var requestDataKey = struct{}{}

type RequestData struct {
  TokenString   string
  AccountID     uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  val := ctx.Value(requestDataKey)
  if rd, ok := val.(*RequestData); ok {
    return rd
  }
  return nil
}
