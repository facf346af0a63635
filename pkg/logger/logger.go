// Package logger, logrus üzerine kurulu yapılandırılmış loglama katmanıdır.
//
// Her katman kendi "component" alanıyla log basar; eski "[ban] ..." prefix
// geleneğinin structured karşılığı:
//
//	log := logger.For("ban")
//	log.WithField("guild_id", guildID).Info("ban created")
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

// Setup, global logger'ı verilen seviye ve formatla yapılandırır.
// format: "text" veya "json". Boş değerler varsayılana (info/text) düşer.
func Setup(level, format string, out io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	if out == nil {
		out = os.Stdout
	}

	base.SetOutput(out)
	base.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", format)
	}

	return nil
}

// ParseLevel, string seviye adını logrus.Level'a çevirir. Boş string → info.
func ParseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// For, component alanı set edilmiş bir log entry döner.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// Logger, alttaki logrus instance'ını döner (test hook'ları için).
func Logger() *logrus.Logger {
	return base
}
