package es

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/logger"
	"context"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

var PostIndex = "atelier-posts"

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// ErrNotConfigured 未配置 ES 地址，搜索走数据库
var ErrNotConfigured = errors.New("elasticsearch not configured")

// InitClient 初始化 Elasticsearch 客户端并确认连通
func InitClient(cfg config.ElasticConfig) (*elasticsearch.TypedClient, error) {
	if cfg.Address == "" {
		return nil, ErrNotConfigured
	}
	if cfg.PostIndex != "" {
		PostIndex = cfg.PostIndex
	}

	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &logger.ESTransport{Transport: http.DefaultTransport},
	})
	if err != nil {
		return nil, err
	}

	info, err := client.Info().Do(context.Background())
	if err != nil {
		return nil, err
	}

	log.Info("Connected to Elasticsearch", "version", info.Version.Int, "index", PostIndex)
	return client, nil
}
