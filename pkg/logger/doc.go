// Package logger builds the slog handle shared by every component. Lines go
// to stdout and, when enabled, are appended to a log file as well.
package logger
