// Package logger is a small factory over log/slog: JSON or text handlers,
// level selection, static attributes and environment presets, so every
// service logs the same shape without repeating handler wiring.
package logger
