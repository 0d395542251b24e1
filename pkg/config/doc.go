// Package config defines the environment-backed configuration structs for
// the notification subsystem and a small loader around caarlos0/env with
// optional .env support.
package config
