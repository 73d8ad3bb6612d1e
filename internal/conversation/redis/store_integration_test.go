//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"registrationBot/internal/domain/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type StoreSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	store     *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	url, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	client, err := NewClient(ctx, Config{URL: url, PoolSize: 2, DialTimeout: 5 * time.Second})
	s.Require().NoError(err)
	s.client = client
	s.store = New(client, time.Minute)
}

func (s *StoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if err := testcontainers.TerminateContainer(s.container); err != nil {
		s.T().Logf("failed to terminate container: %v", err)
	}
}

func (s *StoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(context.Background()).Err())
}

func (s *StoreSuite) TestRoundTripWithTTL() {
	ctx := context.Background()

	conv := models.NewConversation(42)
	conv.Set(models.FieldName, "Анна")
	conv.Set(models.FieldContact, "+380671234567")
	conv.Mode = models.ModeEditingPassword
	conv.BotMessageID = 100
	s.Require().NoError(s.store.Save(ctx, conv))

	got, err := s.store.Get(ctx, 42)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Анна", got.Name)
	s.Equal(models.ModeEditingPassword, got.Mode)
	s.Equal(100, got.BotMessageID)

	ttl, err := s.client.TTL(ctx, key(42)).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *StoreSuite) TestMissingAndDelete() {
	ctx := context.Background()

	got, err := s.store.Get(ctx, 1)
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.store.Save(ctx, models.NewConversation(1)))
	s.Require().NoError(s.store.Delete(ctx, 1))

	got, err = s.store.Get(ctx, 1)
	s.Require().NoError(err)
	s.Nil(got)
}
