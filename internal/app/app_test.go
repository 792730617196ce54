package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-api/internal/core/config"
	"shop-api/internal/core/events"
	"shop-api/internal/domain"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.DB.LogLevel = "silent"
	cfg.DB.MaxOpenConns = 1
	cfg.DB.AutoMigrate = true
	cfg.Session.Secret = "s3cret"
	cfg.Payment.Currency = "USD"
	cfg.App.Env = "test"
	return cfg
}

func TestNew_Minimal(t *testing.T) {
	a, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Cache)
	assert.IsType(t, events.Nop{}, a.Events)
	require.NotNil(t, a.Deps.Services)
	assert.Contains(t, a.Deps.Dispatcher.Names(), "createOrder")

	// 迁移后可直接使用
	list, err := a.Deps.Services.Items.List(context.Background(), domain.ItemFilter{First: 5})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNew_WithRedisAndKafka(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Prefix = "shop:"
	cfg.Kafka.Brokers = []string{"127.0.0.1:9092"}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, a.Cache)
	assert.IsType(t, &events.KafkaPublisher{}, a.Events)
	assert.NoError(t, a.Close())
}

func TestNew_RedisDownDisablesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = addr
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Cache)
}

func TestNew_BadDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Driver = "oracle"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
