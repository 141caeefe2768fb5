package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicworks/civic-cli/internal/model"
)

// Service routes classification requests to the configured path. The local
// rule table is the default; a remote classifier is used when present, and
// falling back from remote to local happens only when the caller opted in,
// since the two paths are not equivalent in quality.
type Service struct {
	remote        *Remote
	fallbackLocal bool
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithRemote delegates classification to the given remote classifier.
func WithRemote(r *Remote) ServiceOption {
	return func(s *Service) {
		s.remote = r
	}
}

// WithLocalFallback enables falling back to the rule table when the remote
// classifier fails.
func WithLocalFallback() ServiceOption {
	return func(s *Service) {
		s.fallbackLocal = true
	}
}

// NewService creates a classification service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify classifies the input on the configured path.
func (s *Service) Classify(ctx context.Context, in Input) (model.Classification, error) {
	if s.remote == nil {
		return Local(in.Title, in.Description)
	}

	c, err := s.remote.Classify(ctx, in)
	if err == nil {
		return c, nil
	}
	if !s.fallbackLocal {
		return model.Classification{}, err
	}

	zap.L().Warn("remote classification failed, falling back to rule table",
		zap.String("title", in.Title),
		zap.Error(err),
	)
	return Local(in.Title, in.Description)
}
