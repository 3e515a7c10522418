// Package config loads the storefront configuration: env vars first, with an
// optional storefront.yaml next to the binary for local development.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Upstream base URLs. Defaults match the docker-compose port layout.
	CartURL    string `mapstructure:"cart_url"`
	AuthURL    string `mapstructure:"auth_url"`
	CatalogURL string `mapstructure:"catalog_url"`
	CouponsURL string `mapstructure:"coupons_url"`
	PaymentURL string `mapstructure:"payment_url"`
	BillingURL string `mapstructure:"billing_url"`

	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`

	// DataDir holds the local slot store (cart snapshot, session).
	DataDir string `mapstructure:"data_dir"`

	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("cart_url", "http://localhost:8082")
	v.SetDefault("auth_url", "http://localhost:8081")
	v.SetDefault("catalog_url", "http://localhost:8085")
	v.SetDefault("coupons_url", "http://localhost:8084")
	v.SetDefault("payment_url", "http://localhost:8083")
	v.SetDefault("billing_url", "http://localhost:8086")
	v.SetDefault("upstream_timeout", "10s")
	v.SetDefault("data_dir", ".storefront")
	v.SetDefault("cors_allow_origins", []string{"*"})

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.CORSAllowOrigins) == 0 {
		cfg.CORSAllowOrigins = []string{"*"}
	}
	return cfg, nil
}
