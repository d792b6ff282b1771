package analyzer

import (
	"fmt"

	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// Selector holds one analyzer per resource kind. Prebuilt models and custom
// models are served by separate resources with separate credentials.
type Selector struct {
	analyzers map[domain.AnalyzerKind]port.DocumentAnalyzer
}

// NewSelector creates a Selector. custom may be nil when no custom resource is configured.
func NewSelector(prebuilt, custom port.DocumentAnalyzer) *Selector {
	s := &Selector{analyzers: map[domain.AnalyzerKind]port.DocumentAnalyzer{}}
	if prebuilt != nil {
		s.analyzers[domain.AnalyzerPrebuilt] = prebuilt
	}
	if custom != nil {
		s.analyzers[domain.AnalyzerCustom] = custom
	}
	return s
}

// For returns the analyzer serving kind.
func (s *Selector) For(kind domain.AnalyzerKind) (port.DocumentAnalyzer, error) {
	a, ok := s.analyzers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s resource", domain.ErrAnalyzerUnavailable, kind)
	}
	return a, nil
}
