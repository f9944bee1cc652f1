package main

import (
	"go.uber.org/zap"

	"github.com/wippyai/hax/config"
)

// newLogger builds a production or development zap logger at the
// configured level. Output goes to stderr.
func newLogger(c config.Log) (*zap.Logger, error) {
	lvl, err := c.ZapLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
