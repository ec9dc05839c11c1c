package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量可覆盖同名项（如 REDIS_ADDR）
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1"})
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("elastic.post_index", "atelier-posts")
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 5)
	v.SetDefault("notification.topic", "atelier-like-notification")
	v.SetDefault("notification.group_id", "atelier-notification")
	v.SetDefault("post_sync.topic", "atelier-post-event")
	v.SetDefault("post_sync.group_id", "atelier-post-sync")
	v.SetDefault("logstash.level", "info")
	v.SetDefault("logstash.index", "logstash-atelier")
	v.SetDefault("jwt.issuer", "Atelier")
	v.SetDefault("engagement.dedup_window_minutes", 10)
	v.SetDefault("engagement.match_policy", "partial")
	v.SetDefault("engagement.counter_cache_ttl_seconds", 600)
	v.SetDefault("engagement.view_stats_cron", "@every 5m")
	v.SetDefault("ranking.default_limit", 20)
	v.SetDefault("ranking.max_limit", 100)
}
