// Package normalize flattens analysis results into field name -> value/confidence sets.
package normalize

import (
	"fmt"
	"strconv"

	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// PartyFields are object fields describing a person or organization. Their
// sub-fields are flattened to <Field>_<Sub>, and their Address to five
// component entries.
var PartyFields = map[string]bool{
	"Employee":  true,
	"Employer":  true,
	"Borrower":  true,
	"Lender":    true,
	"Payer":     true,
	"Recipient": true,
}

// ArrayFields are repeated-row fields flattened to <Field>_<n>_<Key>, n 1-based.
var ArrayFields = map[string]bool{
	"AdditionalInfo":     true,
	"StateTaxInfos":      true,
	"LocalTaxInfos":      true,
	"StateTaxesWithheld": true,
}

// addressField is the party sub-field holding a structured address.
const addressField = "Address"

// Flatten converts every analyzed document into a FieldSet, preserving order.
func Flatten(result *port.AnalyzeResult) []domain.FieldSet {
	if result == nil {
		return nil
	}
	sets := make([]domain.FieldSet, 0, len(result.Documents))
	for i := range result.Documents {
		sets = append(sets, FlattenDocument(i, &result.Documents[i]))
	}
	return sets
}

// FlattenDocument converts one analyzed document into a FieldSet.
func FlattenDocument(index int, doc *port.AnalyzedDocument) domain.FieldSet {
	set := domain.FieldSet{
		Index:      index,
		DocType:    doc.DocType,
		Confidence: doc.Confidence,
		Fields:     make(map[string]domain.FieldValue),
	}
	for name, field := range doc.Fields {
		switch {
		case PartyFields[name]:
			flattenParty(set.Fields, name, &field)
		case ArrayFields[name]:
			flattenArray(set.Fields, name, field.ValueArray)
		default:
			set.Fields[name] = fieldValue(&field)
		}
	}
	return set
}

func flattenParty(out map[string]domain.FieldValue, name string, field *port.DocumentField) {
	for subName, sub := range field.ValueObject {
		if subName == addressField {
			for component, value := range addressComponents(sub.ValueAddress) {
				out[name+"_Address_"+component] = domain.FieldValue{
					Value:      value,
					Confidence: sub.Confidence,
				}
			}
			continue
		}
		out[name+"_"+subName] = fieldValue(&sub)
	}
}

func flattenArray(out map[string]domain.FieldValue, prefix string, items []port.DocumentField) {
	for idx := range items {
		item := &items[idx]
		itemPrefix := fmt.Sprintf("%s_%d", prefix, idx+1)
		if len(item.ValueObject) == 0 {
			if v := fieldValue(item); v.Value != nil {
				out[itemPrefix] = v
			}
			continue
		}
		for key, value := range item.ValueObject {
			out[itemPrefix+"_"+key] = fieldValue(&value)
		}
	}
}

// addressComponents returns the five persisted address components. A missing
// address yields empty components.
func addressComponents(addr *port.AddressValue) map[string]*string {
	if addr == nil {
		addr = &port.AddressValue{}
	}
	return map[string]*string{
		"house_number": optional(addr.HouseNumber),
		"road":         optional(addr.Road),
		"city":         optional(addr.City),
		"state":        optional(addr.State),
		"postal_code":  optional(addr.PostalCode),
	}
}

func fieldValue(f *port.DocumentField) domain.FieldValue {
	return domain.FieldValue{Value: Value(f), Confidence: f.Confidence}
}

// Value renders a field's value as text: valueString first, then
// valueNumber, then the other typed values, then the raw content.
func Value(f *port.DocumentField) *string {
	switch {
	case f.ValueString != nil:
		return f.ValueString
	case f.ValueNumber != nil:
		return ptr(strconv.FormatFloat(*f.ValueNumber, 'f', -1, 64))
	case f.ValueInteger != nil:
		return ptr(strconv.FormatInt(*f.ValueInteger, 10))
	case f.ValueCurrency != nil:
		return ptr(strconv.FormatFloat(f.ValueCurrency.Amount, 'f', -1, 64))
	case f.ValueDate != nil:
		return f.ValueDate
	case f.ValueTime != nil:
		return f.ValueTime
	case f.ValueBoolean != nil:
		return ptr(strconv.FormatBool(*f.ValueBoolean))
	case f.ValueSelectionMark != nil:
		return f.ValueSelectionMark
	case f.ValuePhoneNumber != nil:
		return f.ValuePhoneNumber
	case f.ValueCountryRegion != nil:
		return f.ValueCountryRegion
	case f.ValueAddress != nil:
		if f.Content != nil {
			return f.Content
		}
		return optional(f.ValueAddress.StreetAddress)
	case f.Content != nil:
		return f.Content
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr(s string) *string {
	return &s
}
