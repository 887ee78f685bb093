package logic

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger writing to out at the named level.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	return logger, nil
}
