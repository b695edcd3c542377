package texmd

import (
	"go.uber.org/zap"
)

// Session is the state shared by all the recognizers during one conversion
type Session struct {
	Config *Config
	Labels *Registry

	// NumberWithin is the class of section that numbers equations, as set by \numberwithin
	NumberWithin string

	log   *zap.SugaredLogger
	steps int
}

// NewSession creates the context of a conversion. Nil arguments get the defaults.
func NewSession(cfg *Config, log *zap.SugaredLogger) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		Config:       cfg,
		Labels:       NewRegistry(),
		NumberWithin: "document",
		log:          log,
	}
}

func (s *Session) Log() *zap.SugaredLogger {
	return s.log
}

// Steps returns the number of recognizer invocations so far
func (s *Session) Steps() int {
	return s.steps
}
