package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/qfeed/qfeed-backend/internal/logger"
	"github.com/qfeed/qfeed-backend/internal/types"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.Account{},
		&types.Follow{},
		&types.Block{},
		&types.Qset{},
		&types.UserQset{},
		&types.Question{},
		&types.Choice{},
		&types.ViewHistory{},
		&types.Chatroom{},
		&types.Chat{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return gdb
}

func createTestAccount(t *testing.T, gdb *gorm.DB, nickname string) *types.Account {
	t.Helper()
	email := nickname + "@example.com"
	nick := nickname
	account := &types.Account{
		ID:       uuid.New(),
		Email:    &email,
		Nickname: &nick,
		Name:     nickname,
	}
	if err := gdb.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account %q: %v", nickname, err)
	}
	return account
}

func createTestQset(t *testing.T, gdb *gorm.DB, name string, position int, prompts ...string) *types.Qset {
	t.Helper()
	qset := &types.Qset{
		ID:       uuid.New(),
		Name:     name,
		Position: position,
		Prompts:  datatypes.NewJSONSlice(prompts),
	}
	if err := gdb.Create(qset).Error; err != nil {
		t.Fatalf("failed to create test qset %q: %v", name, err)
	}
	return qset
}
