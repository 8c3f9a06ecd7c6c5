// Package diagnostics provides sinks for interceptor trace events: a zap
// logger sink, a prometheus counter sink and a fan-out that combines them.
package diagnostics
