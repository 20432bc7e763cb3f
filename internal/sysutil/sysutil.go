// Package sysutil holds small process-level helpers shared by the server
// entrypoint.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// logLevels maps accepted LOG_LEVEL values (lowercased, trimmed) to zerolog
// levels. "warning" stays as an alias because older deployments used it in
// their env files.
var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel sets the global zerolog level from a config string.
// Unknown or empty values fall back to info.
func SetLogLevel(lvl string) {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(lvl))]; ok {
		zerolog.SetGlobalLevel(l)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
