package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RelayLogIndexes 请求日志集合的索引
// retention > 0 时 created_at 使用 TTL 索引自动过期
func RelayLogIndexes(retention time.Duration) []mongo.IndexModel {
	createdOpts := options.Index().SetName("idx_created")
	if retention > 0 {
		createdOpts.SetExpireAfterSeconds(int32(retention.Seconds()))
	}

	return []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: createdOpts,
		},
		{
			Keys:    bson.D{bson.E{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("idx_request_id"),
		},
		{
			Keys:    bson.D{bson.E{Key: "key_fingerprint", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_key_created"),
		},
	}
}

// CreateIndexes 辅助函数：批量创建索引
func CreateIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
