package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"
  goredis "github.com/redis/go-redis/v9"
  "github.com/google/uuid"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
  "github.com/qfeed/qfeed-backend/internal/utils"
)

// ChatEvent is the payload published for every persisted chat message,
// consumed by realtime delivery processes outside this service.
type ChatEvent struct {
  ChatroomID uuid.UUID `json:"chatroom_id"`
  ChatID     uuid.UUID `json:"chat_id"`
  OwnerID    uuid.UUID `json:"owner_id"`
  Message    string    `json:"message"`
  CreatedAt  time.Time `json:"created_at"`
}

type ChatEventBus interface {
  Publish(ctx context.Context, event ChatEvent) error
  Close() error
}

type redisChatEventBus struct {
  log     *logger.Logger
  rdb     *goredis.Client
  channel string
}

func NewRedisChatEventBus(log *logger.Logger) (ChatEventBus, error) {
  busLog := log.With("service", "RedisChatEventBus")
  addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }
  channel := strings.TrimSpace(utils.GetEnv("REDIS_CHAT_CHANNEL", "chat", log))

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }
  return &redisChatEventBus{log: busLog, rdb: rdb, channel: channel}, nil
}

func (b *redisChatEventBus) Publish(ctx context.Context, event ChatEvent) error {
  raw, err := json.Marshal(event)
  if err != nil {
    return err
  }
  return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisChatEventBus) Close() error {
  return b.rdb.Close()
}

// noopChatEventBus keeps chat usable when redis is not configured.
type noopChatEventBus struct{}

func NewNoopChatEventBus() ChatEventBus { return noopChatEventBus{} }

func (noopChatEventBus) Publish(ctx context.Context, event ChatEvent) error { return nil }
func (noopChatEventBus) Close() error                                       { return nil }

func NewChatEvent(chat *types.Chat) ChatEvent {
  return ChatEvent{
    ChatroomID: chat.ChatroomID,
    ChatID:     chat.ID,
    OwnerID:    chat.OwnerID,
    Message:    chat.Message,
    CreatedAt:  chat.CreatedAt,
  }
}
