// Package formmap routes tax form types to document analysis models.
package formmap

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"taxextract/internal/domain"
)

// DefaultModels maps form types to prebuilt tax models of the analysis service.
var DefaultModels = map[domain.FormType]string{
	domain.FormTypeW2:       "prebuilt-tax.us.w2",
	domain.FormType1098:     "prebuilt-tax.us.1098",
	domain.FormType1098E:    "prebuilt-tax.us.1098E",
	domain.FormType1098T:    "prebuilt-tax.us.1098T",
	domain.FormType1099INT:  "prebuilt-tax.us.1099INT",
	domain.FormType1099DIV:  "prebuilt-tax.us.1099DIV",
	domain.FormType1099MISC: "prebuilt-tax.us.1099MISC",
	domain.FormType1099NEC:  "prebuilt-tax.us.1099NEC",
	domain.FormType1040:     "prebuilt-tax.us.1040",
}

// Route tells the extraction which model to call and on which resource.
type Route struct {
	ModelID string
	Kind    domain.AnalyzerKind
}

// Mapping resolves form types to routes. It is read-only after construction.
type Mapping struct {
	fallback string
	models   map[domain.FormType]string
	custom   map[domain.FormType]string
}

// New creates a Mapping from the built-in models. Every form type in
// customForms is routed to customModel on the custom resource.
func New(fallback string, customForms []string, customModel string) *Mapping {
	if fallback == "" {
		fallback = "unsorted"
	}
	m := &Mapping{
		fallback: fallback,
		models:   make(map[domain.FormType]string, len(DefaultModels)),
		custom:   make(map[domain.FormType]string, len(customForms)),
	}
	for ft, model := range DefaultModels {
		m.models[ft] = model
	}
	for _, ft := range customForms {
		m.custom[normalize(ft)] = customModel
	}
	return m
}

// fileFormat is the YAML layout of a model map file.
type fileFormat struct {
	Fallback string            `yaml:"fallback"`
	Models   map[string]string `yaml:"models"`
	Custom   map[string]string `yaml:"custom"`
}

// LoadFile merges entries from a YAML model map file into m.
func (m *Mapping) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("formmap: reading %s: %w", path, err)
	}
	return m.Merge(b)
}

// Merge applies a YAML model map document on top of the current entries.
func (m *Mapping) Merge(doc []byte) error {
	var raw fileFormat
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return fmt.Errorf("formmap: parsing yaml: %w", err)
	}
	if raw.Fallback != "" {
		m.fallback = raw.Fallback
	}
	for ft, model := range raw.Models {
		if model == "" {
			return fmt.Errorf("formmap: empty model for form type %q", ft)
		}
		key := normalize(ft)
		m.models[key] = model
		delete(m.custom, key)
	}
	for ft, model := range raw.Custom {
		if model == "" {
			return fmt.Errorf("formmap: empty custom model for form type %q", ft)
		}
		m.custom[normalize(ft)] = model
	}
	return nil
}

// Resolve returns the route for a form type. Unknown form types go to the
// fallback model on the prebuilt resource.
func (m *Mapping) Resolve(formType domain.FormType) Route {
	key := normalize(string(formType))
	if model, ok := m.custom[key]; ok {
		return Route{ModelID: model, Kind: domain.AnalyzerCustom}
	}
	if model, ok := m.models[key]; ok {
		return Route{ModelID: model, Kind: domain.AnalyzerPrebuilt}
	}
	return Route{ModelID: m.fallback, Kind: domain.AnalyzerPrebuilt}
}

// Known reports whether the form type has an explicit route.
func (m *Mapping) Known(formType domain.FormType) bool {
	key := normalize(string(formType))
	_, prebuilt := m.models[key]
	_, custom := m.custom[key]
	return prebuilt || custom
}

func normalize(ft string) domain.FormType {
	return domain.FormType(strings.ToUpper(strings.TrimSpace(ft)))
}
