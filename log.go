package main

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

// newLogger returns a logger for w, which must never be stdout (that's the response).
func newLogger(cfg Config, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		return log, fmt.Errorf("bad %s_LOG_LEVEL: %w", configPrefix, err)
	}
	log.SetLevel(level)
	return log, nil
}

func dumpEnv(log *logrus.Entry, env Env) {
	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	log.Debugf("environment: %# v", pretty.Formatter(env.vars))
}
