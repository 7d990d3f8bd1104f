// Package config loads runtime configuration for the flashcards shell.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file, JSON or YAML by extension, selected with --config.
//  3. A .env file in the working directory.
//  4. Process environment variables (FLASHCARDS_API_URL,
//     FLASHCARDS_SESSION_DB, FLASHCARDS_LOG_LEVEL,
//     FLASHCARDS_REQUEST_TIMEOUT).
//  5. Command-line flags, passed to Load as Overrides.
//
// # File schema
//
// Durations accept strings like "10s" or integer nanoseconds. YAML files may
// reference environment variables as ${VAR}.
//
//	api_base_url: http://localhost:8000/api
//	request_timeout: 10s
//	session_db_path: ${HOME}/.flashcards.db
//	log_level: info
//	login_route: /login
package config
