// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"go.uber.org/zap"
)

// New returns a development logger when dev is set and a production logger otherwise.
func New(dev bool, name string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Named(name), nil
}
