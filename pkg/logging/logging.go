// Package logging decides where log output goes. During debugging there
// can be a lot of it, a line per field of every structure.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Where returns a logger writing to dest. If dest is "", output is
// thrown away. If it is "stdout", we write to standard output.
// Anything else is a file name. Files are rotated when they reach
// maxMB megabytes.
func Where(dest string, level logrus.Level, maxMB int) *logrus.Logger {
	var w io.Writer
	switch dest {
	case "":
		w = io.Discard
	case "stdout":
		w = os.Stdout
	default:
		w = &lumberjack.Logger{
			Filename:   dest,
			MaxSize:    maxMB,
			MaxBackups: 3,
			LocalTime:  true,
		}
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return log
}

// Close flushes and closes the log file, if there is one.
func Close(log *logrus.Logger) error {
	if c, ok := log.Out.(io.Closer); ok && log.Out != os.Stdout {
		return c.Close()
	}
	return nil
}
