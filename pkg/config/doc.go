// Package config loads environment-driven configuration structs with
// caching, so each configuration type is parsed exactly once per process.
//
// Structs declare their variables through `env` field tags (caarlos0/env);
// an optional .env file is picked up automatically in development.
package config
