// Package config loads server settings from the environment with sane
// defaults, using the SHOP_ prefix (SHOP_LISTEN_ADDR, SHOP_MYSQL_DSN, ...).
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// ListenAddr is the TCP address the envelope protocol listens on.
	ListenAddr string `mapstructure:"listen_addr"`

	MySQLDSN string `mapstructure:"mysql_dsn"`

	// RedisAddr switches the stock authority from the in-process store to
	// Redis when non-empty.
	RedisAddr string `mapstructure:"redis_addr"`
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":9090")
	v.SetDefault("mysql_dsn", "root:root@tcp(localhost:3306)/retailshop?parseTime=true")
	v.SetDefault("redis_addr", "")

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("shop")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
