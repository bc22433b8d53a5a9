// Package config loads typed configuration structs from environment
// variables using `env` struct tags, with an optional .env file picked up
// once per process for local development.
//
//	type AppConfig struct {
//	    Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
