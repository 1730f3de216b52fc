package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuiter-labs/tuiter/config"
)

// InitMongo 初始化 MongoDB 连接
//
// The returned database shares one bounded connection pool across all
// requests. Timeouts beyond the driver's own are not layered on top.
func InitMongo(cfg *config.MongoConfig) (*mongo.Database, *mongo.Client, error) {
	opts := options.Client().
		ApplyURI(BuildMongoURI(cfg.Host, cfg.Port)).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetServerSelectionTimeout(time.Duration(cfg.ServerSelectionTimeoutMS) * time.Millisecond).
		SetSocketTimeout(time.Duration(cfg.SocketTimeoutMS) * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return client.Database(cfg.DBName), client, nil
}

// BuildMongoURI 构建 MongoDB 连接字符串
func BuildMongoURI(host, port string) string {
	return fmt.Sprintf("mongodb://%s:%s", host, port)
}
