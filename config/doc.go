// Package config loads voxlate configuration with Viper.
//
// Values come from an optional config.yml, a .env file loaded through
// godotenv, PREFIX_* environment variables and explicitly set pflag flags,
// in increasing order of precedence.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("voxlate", &cfg, config.WithFlags(flags, app.FlagKeys))
package config
