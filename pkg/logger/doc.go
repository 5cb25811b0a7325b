// Package logger builds configured log/slog loggers with environment-aware
// defaults: JSON at info level for production, text at debug level for
// development, with static service attributes attached to every record.
package logger
