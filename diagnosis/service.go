// Package diagnosis runs the pipeline from an uploaded document and a symptom
// description to a disease, medicine and directions suggestion.
package diagnosis

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"medassist/inference"
	"medassist/medinfo"
	"medassist/models"
)

// Extractor returns the text of the document at path.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type Request struct {
	DocumentPath string
	Symptoms     string
}

// Outcome is everything one diagnosis produced. Fallback is set when the
// model answered but its output could not be parsed.
type Outcome struct {
	Result   models.DiagnosisResult
	Fallback bool
	Sections medinfo.Sections
	Prompt   string
	Raw      string
}

// Service holds no per-call state and is safe for concurrent use.
type Service struct {
	extractor Extractor
	generator inference.Generator
}

func NewService(extractor Extractor, generator inference.Generator) *Service {
	return &Service{extractor: extractor, generator: generator}
}

func (s *Service) Diagnose(ctx context.Context, req Request) (*Outcome, error) {
	const op = "diagnosis.Diagnose"

	if req.DocumentPath == "" {
		return nil, &Error{Kind: KindValidation, Op: op, Err: ErrNoDocument}
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, &Error{Kind: KindValidation, Op: op, Err: ErrNoSymptoms}
	}

	text, err := s.extractor.ExtractText(ctx, req.DocumentPath)
	if err != nil {
		return nil, &Error{Kind: KindExtraction, Op: op, Err: err}
	}

	out := &Outcome{Sections: medinfo.Summarize(text)}
	out.Prompt = BuildPrompt(out.Sections.PastDiseases, req.Symptoms)

	out.Raw, err = s.generator.Generate(ctx, out.Prompt)
	if err != nil {
		return nil, &Error{Kind: KindInference, Op: op, Err: err}
	}

	var ok bool
	out.Result, ok = Parse(out.Raw)
	out.Fallback = !ok
	if out.Fallback {
		zerolog.Ctx(ctx).Warn().Str("raw", out.Raw).Msg("model output did not match the expected format")
	}
	return out, nil
}
