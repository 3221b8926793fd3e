package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"cabinets/internal/config"
)

// Keys read from cabinetctl.yaml or CABINETS_<KEY> environment variables
const (
	cfgKeyEnvironment    = "environment"
	cfgKeyTablePrefix    = "table_prefix"
	cfgKeyDatabaseDriver = "database_driver"
	cfgKeyDatabaseURL    = "database_url"
	cfgKeySQLitePath     = "sqlite_path"
	cfgKeyAMQPURL        = "amqp_url"
	cfgKeyAMQPExchange   = "amqp_exchange"

	configFileName = "cabinetctl"
	envPrefix      = "CABINETS"
)

// loadConfig layers the config file and CABINETS_* variables over the
// server's environment configuration. A missing config file is not an error.
func loadConfig(path string) (*config.Config, error) {
	base := config.Load()

	v := viper.New()
	v.SetDefault(cfgKeyEnvironment, base.Environment)
	v.SetDefault(cfgKeyDatabaseDriver, base.DatabaseDriver)
	v.SetDefault(cfgKeyDatabaseURL, base.DatabaseURL)
	v.SetDefault(cfgKeySQLitePath, base.SQLitePath)
	v.SetDefault(cfgKeyAMQPURL, base.AMQPURL)
	v.SetDefault(cfgKeyAMQPExchange, base.AMQPExchange)
	v.SetDefault(cfgKeyTablePrefix, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := *base
	cfg.Environment = v.GetString(cfgKeyEnvironment)
	cfg.DatabaseDriver = v.GetString(cfgKeyDatabaseDriver)
	cfg.DatabaseURL = v.GetString(cfgKeyDatabaseURL)
	cfg.SQLitePath = v.GetString(cfgKeySQLitePath)
	cfg.AMQPURL = v.GetString(cfgKeyAMQPURL)
	cfg.AMQPExchange = v.GetString(cfgKeyAMQPExchange)

	// An explicit prefix wins; otherwise follow the (possibly overridden) environment
	cfg.TablePrefix = v.GetString(cfgKeyTablePrefix)
	if cfg.TablePrefix == "" {
		if cfg.Environment == base.Environment {
			cfg.TablePrefix = base.TablePrefix
		} else {
			cfg.TablePrefix = config.TablePrefixFor(cfg.Environment)
		}
	}

	if err := cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
