// Package formdata converts flat bracket-indexed form fields into nested
// typed groups and back.
//
// The key grammar is:
//
//	group "[" index "]" "[" field "]"   repeated row, e.g. education[0][degree]
//	group "[" field "]"                 singleton object, e.g. bank[bankName]
//
// Index tokens are non-negative integers but are not required to be
// contiguous or zero-based. Rows are ordered by first appearance of their
// index token, not by numeric value. Keys that match no declared pattern are
// ignored, never rejected.
package formdata

import (
	"strconv"
	"strings"
)

// RawField is one submitted key/value pair.
type RawField struct {
	Key   string
	Value string
}

// RawFieldSet is the flat, ordered view of a submission. Keys are not
// necessarily unique: checkbox groups submit the same key once per selection.
type RawFieldSet struct {
	fields []RawField
}

// Add appends a key/value pair, preserving submission order.
func (s *RawFieldSet) Add(key, value string) {
	s.fields = append(s.fields, RawField{Key: key, Value: value})
}

// Fields returns the pairs in submission order.
func (s *RawFieldSet) Fields() []RawField {
	return s.fields
}

// GroupSchema declares a group prefix and its recognized field names.
// Field names outside the schema are ignored when decoding.
type GroupSchema struct {
	Prefix string
	Fields []string
}

// Schema declares everything the codec recognizes in a submission.
type Schema struct {
	Scalars    []string
	RowGroups  []GroupSchema
	Singletons []GroupSchema
}

// ApplicationSchema is the wire contract for a job-application submission.
var ApplicationSchema = Schema{
	Scalars: []string{
		"fullName", "phone", "email", "position", "dateOfApplication",
		"employmentType", "maritalStatus", "address", "dob", "aadhar",
	},
	RowGroups: []GroupSchema{
		{Prefix: "education", Fields: []string{"degree", "institute", "year", "grade", "city"}},
		{Prefix: "employment", Fields: []string{"company", "position", "year", "reason"}},
		{Prefix: "skills", Fields: []string{"skill", "level", "year", "institute"}},
		{Prefix: "family", Fields: []string{"name", "relation", "occupation"}},
		{Prefix: "emergency", Fields: []string{"name", "relationship", "occupation", "qualification", "city"}},
	},
	Singletons: []GroupSchema{
		{Prefix: "bank", Fields: []string{"bankName", "accountHolder", "accountNumber", "ifsc", "branch"}},
		{Prefix: "joining", Fields: []string{"joiningDate", "fees", "firstInstallment", "secondInstallment", "thirdInstallment", "noticePeriod"}},
		{Prefix: "company", Fields: []string{"name", "address", "contact", "receiverSignature", "hrSignature"}},
	},
}

// Row is one repeated-group entry. Index is the raw index token from the
// submission. Fields holds only the non-empty trimmed values, so an entry
// whose inputs were all left blank has an empty Fields map.
type Row struct {
	Index  string
	Fields map[string]string
}

// Decoded is the structured view of a RawFieldSet. Scalars keeps every value
// submitted for a key, in order; callers decide singular-vs-multiple
// semantics per field.
type Decoded struct {
	Scalars    map[string][]string
	RowGroups  map[string][]Row
	Singletons map[string]map[string]string
}

// Scalar returns the first submitted value for a scalar key, or "".
func (d Decoded) Scalar(name string) string {
	values := d.Scalars[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Rows returns the decoded rows for a repeated-group prefix.
func (d Decoded) Rows(prefix string) []Row {
	return d.RowGroups[prefix]
}

// Singleton returns the decoded map for a singleton-group prefix. A group
// with no populated fields yields a nil map.
func (d Decoded) Singleton(prefix string) map[string]string {
	return d.Singletons[prefix]
}

// parsedKey is the result of matching one raw key against the grammar.
type parsedKey struct {
	group string
	index string // set only for row keys
	field string
	isRow bool
}

// parseKey splits a key of the form group[index][field] or group[field].
// Returns false for anything else, including trailing garbage after the
// final bracket.
func parseKey(key string) (parsedKey, bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return parsedKey{}, false
	}
	group := key[:open]

	rest := key[open:]
	var segments []string
	for len(rest) > 0 {
		if rest[0] != '[' {
			return parsedKey{}, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return parsedKey{}, false
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}

	switch len(segments) {
	case 1:
		if !isIdentifier(segments[0]) {
			return parsedKey{}, false
		}
		return parsedKey{group: group, field: segments[0]}, true
	case 2:
		if !isIndex(segments[0]) || !isIdentifier(segments[1]) {
			return parsedKey{}, false
		}
		return parsedKey{group: group, index: segments[0], field: segments[1], isRow: true}, true
	default:
		return parsedKey{}, false
	}
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Decode transforms a flat field set into scalars, row groups and singleton
// groups according to the schema. It performs no validation: the only
// normalization is leading/trailing whitespace trimming. Malformed or
// undeclared keys are skipped silently.
func Decode(raw *RawFieldSet, schema Schema) Decoded {
	scalarSet := make(map[string]bool, len(schema.Scalars))
	for _, name := range schema.Scalars {
		scalarSet[name] = true
	}
	rowSchemas := make(map[string]map[string]bool, len(schema.RowGroups))
	for _, g := range schema.RowGroups {
		rowSchemas[g.Prefix] = fieldSet(g.Fields)
	}
	singletonSchemas := make(map[string]map[string]bool, len(schema.Singletons))
	for _, g := range schema.Singletons {
		singletonSchemas[g.Prefix] = fieldSet(g.Fields)
	}

	decoded := Decoded{
		Scalars:    make(map[string][]string),
		RowGroups:  make(map[string][]Row),
		Singletons: make(map[string]map[string]string),
	}
	// rowPos tracks the position of each index token per group so rows keep
	// first-appearance order even when indices arrive out of numeric order.
	rowPos := make(map[string]map[string]int)

	for _, f := range raw.Fields() {
		value := strings.TrimSpace(f.Value)

		if scalarSet[f.Key] {
			decoded.Scalars[f.Key] = append(decoded.Scalars[f.Key], value)
			continue
		}

		key, ok := parseKey(f.Key)
		if !ok {
			continue
		}

		if key.isRow {
			fields, declared := rowSchemas[key.group]
			if !declared {
				continue
			}
			positions := rowPos[key.group]
			if positions == nil {
				positions = make(map[string]int)
				rowPos[key.group] = positions
			}
			pos, seen := positions[key.index]
			if !seen {
				pos = len(decoded.RowGroups[key.group])
				positions[key.index] = pos
				decoded.RowGroups[key.group] = append(decoded.RowGroups[key.group], Row{
					Index:  key.index,
					Fields: make(map[string]string),
				})
			}
			if fields[key.field] && value != "" {
				decoded.RowGroups[key.group][pos].Fields[key.field] = value
			}
			continue
		}

		fields, declared := singletonSchemas[key.group]
		if !declared || !fields[key.field] {
			continue
		}
		if value == "" {
			continue
		}
		group := decoded.Singletons[key.group]
		if group == nil {
			group = make(map[string]string)
			decoded.Singletons[key.group] = group
		}
		// Last write wins for repeated singleton fields.
		group[key.field] = value
	}

	return decoded
}

// Encode is the inverse of Decode, used by clients preparing a submission.
// Rows are re-indexed positionally, so an Encode/Decode round trip preserves
// every field value and row order but not the original index tokens.
func Encode(decoded Decoded, schema Schema) *RawFieldSet {
	raw := &RawFieldSet{}

	for _, name := range schema.Scalars {
		for _, value := range decoded.Scalars[name] {
			raw.Add(name, value)
		}
	}
	for _, g := range schema.RowGroups {
		for i, row := range decoded.RowGroups[g.Prefix] {
			for _, field := range g.Fields {
				if value, ok := row.Fields[field]; ok {
					raw.Add(g.Prefix+"["+strconv.Itoa(i)+"]["+field+"]", value)
				}
			}
		}
	}
	for _, g := range schema.Singletons {
		group := decoded.Singletons[g.Prefix]
		for _, field := range g.Fields {
			if value, ok := group[field]; ok {
				raw.Add(g.Prefix+"["+field+"]", value)
			}
		}
	}

	return raw
}

func fieldSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
