package renderer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// ZerologLogger implements core.Logger on top of a zerolog logger
type ZerologLogger struct {
	log   zerolog.Logger
	level zerolog.Level
}

// NewZerologLogger creates a core.Logger writing each Printf as one event
// at the given level
func NewZerologLogger(log zerolog.Logger, level zerolog.Level) core.Logger {
	return &ZerologLogger{log: log, level: level}
}

// Printf implements core.Logger
func (zl *ZerologLogger) Printf(format string, args ...interface{}) {
	zl.log.WithLevel(zl.level).Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
