package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rarebox/kalorify-ai/apimodels"
	"github.com/Rarebox/kalorify-ai/internal/analysis"
	"github.com/Rarebox/kalorify-ai/internal/locale"
)

// Backend is a remote analysis service.
type Backend interface {
	Analyze(ctx context.Context, img analysis.Image) (*analysis.Result, error)
	Name() string
}

var ErrEmptyImage = errors.New("image is empty")

type Analyzer struct {
	backend     Backend
	resolver    *locale.Resolver
	splitErrors bool
}

type Option func(*Analyzer)

// WithSplitErrors makes FailureMessage tell transport failures apart from
// unreadable responses.
func WithSplitErrors(split bool) Option {
	return func(a *Analyzer) { a.splitErrors = split }
}

func New(backend Backend, resolver *locale.Resolver, opts ...Option) *Analyzer {
	a := &Analyzer{
		backend:  backend,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Resolver() *locale.Resolver { return a.resolver }

// Analyze sends the photo to the backend and localizes what comes back. On
// error no partial response is returned; callers turn the error into
// FailureMessage(err).
func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResponse, error) {
	if len(req.Image) == 0 {
		return nil, ErrEmptyImage
	}

	id := uuid.NewString()
	slog.Info("Starting analysis", "id", id, "backend", a.backend.Name(), "filename", req.Filename, "bytes", len(req.Image))
	startTime := time.Now()

	res, err := a.backend.Analyze(ctx, analysis.Image{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", id, err)
	}

	resp := a.respond(id, res, startTime)
	slog.Info("Analysis completed", "id", id, "status", resp.Status, "duration", resp.Metadata.Duration)
	return resp, nil
}

// Localize runs a raw analysis service response through the parser and the
// resolver without calling the backend.
func (a *Analyzer) Localize(body []byte) (*apimodels.AnalysisResponse, error) {
	startTime := time.Now()

	res, err := analysis.Parse(body)
	if err != nil {
		return nil, err
	}

	resp := a.respond(uuid.NewString(), res, startTime)
	resp.Metadata.Backend = "direct"
	return resp, nil
}

func (a *Analyzer) respond(id string, res *analysis.Result, startTime time.Time) *apimodels.AnalysisResponse {
	resp := &apimodels.AnalysisResponse{
		ID: id,
		Metadata: apimodels.AnalysisMetadata{
			Backend:  a.backend.Name(),
			Language: a.resolver.Language(),
		},
	}

	if report := a.resolver.Localize(res); report != nil {
		resp.Status = apimodels.StatusOK
		resp.Report = report
	} else {
		resp.Status = apimodels.StatusEmpty
		resp.Message = a.resolver.Message(locale.MsgNoResult)
	}

	resp.Metadata.Duration = time.Since(startTime).String()
	return resp
}

// FailureMessage is the text shown to the user for a failed analysis.
func (a *Analyzer) FailureMessage(err error) string {
	if a.splitErrors {
		var transport *analysis.TransportError
		var malformed *analysis.MalformedResponseError
		switch {
		case errors.As(err, &transport) && a.resolver.HasMessage(locale.MsgTransportFailed):
			return a.resolver.Message(locale.MsgTransportFailed)
		case errors.As(err, &malformed) && a.resolver.HasMessage(locale.MsgMalformedResponse):
			return a.resolver.Message(locale.MsgMalformedResponse)
		}
	}
	return a.resolver.Message(locale.MsgAnalysisFailed)
}

// Failure builds the error response for err.
func (a *Analyzer) Failure(err error) *apimodels.AnalysisResponse {
	return &apimodels.AnalysisResponse{
		Status:  apimodels.StatusError,
		Message: a.FailureMessage(err),
		Metadata: apimodels.AnalysisMetadata{
			Backend:  a.backend.Name(),
			Language: a.resolver.Language(),
		},
	}
}
