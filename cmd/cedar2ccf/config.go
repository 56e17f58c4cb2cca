package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/hubmapconsortium/cedar2ccf/internal/secrets"
	"github.com/hubmapconsortium/cedar2ccf/pkg/types"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "cedar2ccf/0.1"
	defaultMaxRetries = 5
	defaultCacheDir   = ".cedar2ccf"
)

// cedarConfig resolves the CEDAR client settings. Flags win over the
// environment and config file; the secrets directory fills in credentials
// that are still empty.
func cedarConfig() types.CedarConfig {
	timeout := viper.GetDuration("cedar.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("cedar.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxRetries := defaultMaxRetries
	if viper.IsSet("cedar.max_retries") {
		maxRetries = viper.GetInt("cedar.max_retries")
	}
	return types.CedarConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		BaseURL:    viper.GetString("cedar.base_url"),
		UserID:     secretDefault(secrets.CedarUserID, viper.GetString("cedar.user_id")),
		APIKey:     secretDefault(secrets.CedarAPIKey, viper.GetString("cedar.api_key")),
		PageSize:   viper.GetInt("cedar.page_size"),
		MaxRetries: maxRetries,
	}
}

// cacheConfig resolves the record cache location.
func cacheConfig() types.CacheConfig {
	dir := viper.GetString("cache.dir")
	if dir == "" {
		dir = defaultCacheDir
	}
	return types.CacheConfig{Dir: dir}
}
