package port

import "context"

// AnalyzeInput carries the data needed to analyze a stored document.
type AnalyzeInput struct {
	ModelID   string
	URLSource string
}

// AnalyzeResult is the subset of the analysis service response this service consumes.
type AnalyzeResult struct {
	APIVersion string             `json:"apiVersion"`
	ModelID    string             `json:"modelId"`
	Content    string             `json:"content"`
	Documents  []AnalyzedDocument `json:"documents"`
}

// AnalyzedDocument is one document recognized within the analyzed file.
type AnalyzedDocument struct {
	DocType    string                   `json:"docType"`
	Confidence *float64                 `json:"confidence"`
	Fields     map[string]DocumentField `json:"fields"`
}

// DocumentField is a recognized field. Exactly one of the Value* members is
// normally set, matching Type.
type DocumentField struct {
	Type               string                   `json:"type"`
	ValueString        *string                  `json:"valueString,omitempty"`
	ValueNumber        *float64                 `json:"valueNumber,omitempty"`
	ValueInteger       *int64                   `json:"valueInteger,omitempty"`
	ValueDate          *string                  `json:"valueDate,omitempty"`
	ValueTime          *string                  `json:"valueTime,omitempty"`
	ValueBoolean       *bool                    `json:"valueBoolean,omitempty"`
	ValuePhoneNumber   *string                  `json:"valuePhoneNumber,omitempty"`
	ValueSelectionMark *string                  `json:"valueSelectionMark,omitempty"`
	ValueCountryRegion *string                  `json:"valueCountryRegion,omitempty"`
	ValueCurrency      *CurrencyValue           `json:"valueCurrency,omitempty"`
	ValueAddress       *AddressValue            `json:"valueAddress,omitempty"`
	ValueObject        map[string]DocumentField `json:"valueObject,omitempty"`
	ValueArray         []DocumentField          `json:"valueArray,omitempty"`
	Content            *string                  `json:"content,omitempty"`
	Confidence         *float64                 `json:"confidence,omitempty"`
}

// AddressValue is a parsed postal address.
type AddressValue struct {
	HouseNumber   string `json:"houseNumber"`
	Road          string `json:"road"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	StreetAddress string `json:"streetAddress"`
	Unit          string `json:"unit"`
	CountryRegion string `json:"countryRegion"`
}

// CurrencyValue is a parsed monetary amount.
type CurrencyValue struct {
	Amount         float64 `json:"amount"`
	CurrencySymbol string  `json:"currencySymbol"`
	CurrencyCode   string  `json:"currencyCode"`
}

// DocumentAnalyzer abstracts the external document analysis service.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeResult, error)
}
