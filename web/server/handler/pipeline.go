package handler

import (
	"log/slog"

	"go.hackfix.me/tracks/web/server/types"
)

// Pipeline defines the processing stages for HTTP requests and responses.
// It provides a fluent interface for configuring authentication, serialization
// and processors.
type Pipeline struct {
	auth               Authenticator
	serializer         Serializer
	errorLevel         types.ErrorLevel
	logger             *slog.Logger
	responseProcessors []ResponseProcessor
}

// NewPipeline creates a new empty pipeline for configuring request/response
// processing. Errors are sanitized with types.ErrorLevelMinimal by default.
func NewPipeline() *Pipeline {
	return &Pipeline{errorLevel: types.ErrorLevelMinimal, logger: slog.Default()}
}

// Auth sets the authenticator for this pipeline.
func (p *Pipeline) Auth(auth Authenticator) *Pipeline {
	p.auth = auth
	return p
}

// Serialize sets the request and response serializer for this pipeline.
func (p *Pipeline) Serialize(s Serializer) *Pipeline {
	p.serializer = s
	return p
}

// ErrorLevel sets the amount of error detail returned to clients.
func (p *Pipeline) ErrorLevel(lvl types.ErrorLevel) *Pipeline {
	p.errorLevel = lvl
	return p
}

// Logger sets the logger used to report server errors.
func (p *Pipeline) Logger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// ProcessResponse adds one or more response processors to the pipeline.
func (p *Pipeline) ProcessResponse(processor ...ResponseProcessor) *Pipeline {
	p.responseProcessors = append(p.responseProcessors, processor...)
	return p
}
