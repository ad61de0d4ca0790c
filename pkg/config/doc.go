// Package config loads typed configuration from environment variables.
//
// Each component declares its own struct with caarlos0/env tags and the
// process entry point loads them all with Load. Dotenv files are read with
// joho/godotenv; variables set in the real environment always take
// precedence over file values.
package config
