package mongodb

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/maxviazov/lexico-users/internal/config"
	"github.com/maxviazov/lexico-users/internal/repository"
	"github.com/maxviazov/lexico-users/internal/repository/contract"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	client *mongo.Client
	coll   *mongo.Collection
	skippy bool
)

func TestMain(m *testing.M) {
	uri := os.Getenv("APP_MONGO_URI")
	if os.Getenv("CONTRACT_TESTS") != "1" || uri == "" {
		skippy = true
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	client, err = Connect(ctx, config.MongoConfig{URI: uri, Database: "lexicodb_test", Collection: "users"}, zerolog.New(io.Discard))
	if err != nil {
		fmt.Println("[contract] mongo connect error:", err)
		os.Exit(1)
	}
	coll = client.Database("lexicodb_test").Collection("users")
	if err := EnsureIndexes(ctx, coll); err != nil {
		fmt.Println("[contract] ensure indexes error:", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = client.Disconnect(ctx)
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and APP_MONGO_URI")
	}
}

func wipe(t *testing.T) {
	t.Helper()
	if _, err := coll.DeleteMany(context.Background(), bson.D{}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
}

func TestRecordRepository_MongoContract(t *testing.T) {
	contract.RunRecordRepositoryContract(t, func(t *testing.T) (repository.RecordRepository, func()) {
		skipIfNeeded(t)
		wipe(t)
		return NewRecordRepository(coll), func() { wipe(t) }
	})
}

func TestPinger_MongoContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		skipIfNeeded(t)
		return NewPinger(client), func() {}
	})
}
