// Package logging assembles the structured slog loggers used across
// talkline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes a no-op logger plus component tagging helpers so
// library packages can log without caring how the binary was configured.
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
