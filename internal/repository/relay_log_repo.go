package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chatrelay/internal/model"
	"chatrelay/internal/pkg/mongodb"
)

// DefaultRelayLogCollection 请求日志默认集合名
const DefaultRelayLogCollection = "relay_logs"

// RelayLogRepo 请求日志仓库，只写入
type RelayLogRepo struct {
	collection *mongo.Collection
}

// NewRelayLogRepo 创建请求日志仓库
func NewRelayLogRepo(db *mongo.Database, collection string) *RelayLogRepo {
	if collection == "" {
		collection = DefaultRelayLogCollection
	}
	return &RelayLogRepo{
		collection: db.Collection(collection),
	}
}

// EnsureIndexes 创建索引
func (r *RelayLogRepo) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	return mongodb.CreateIndexes(ctx, r.collection, mongodb.RelayLogIndexes(retention))
}

// Insert 写入一条请求日志
func (r *RelayLogRepo) Insert(ctx context.Context, entry *model.RelayLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}
