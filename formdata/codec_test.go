package formdata

import (
	"reflect"
	"testing"
)

func TestDecodeScalarsKeepEveryValue(t *testing.T) {
	raw := &RawFieldSet{}
	raw.Add("fullName", "  Asha Verma ")
	raw.Add("employmentType", "Full-Time")
	raw.Add("employmentType", "Remote")

	decoded := Decode(raw, ApplicationSchema)

	if got := decoded.Scalar("fullName"); got != "Asha Verma" {
		t.Errorf("fullName = %q, want trimmed value", got)
	}
	want := []string{"Full-Time", "Remote"}
	if !reflect.DeepEqual(decoded.Scalars["employmentType"], want) {
		t.Errorf("employmentType = %v, want %v", decoded.Scalars["employmentType"], want)
	}
}

func TestDecodeRowGroupFirstSeenOrder(t *testing.T) {
	// Indices arrive non-contiguous and out of numeric order; rows must
	// keep first-appearance order, not numeric order.
	raw := &RawFieldSet{}
	raw.Add("education[7][degree]", "MSc")
	raw.Add("education[2][degree]", "BSc")
	raw.Add("education[7][institute]", "IIT")
	raw.Add("education[2][institute]", "DU")

	decoded := Decode(raw, ApplicationSchema)

	rows := decoded.Rows("education")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Index != "7" || rows[1].Index != "2" {
		t.Errorf("row order = [%s %s], want [7 2]", rows[0].Index, rows[1].Index)
	}
	if rows[0].Fields["degree"] != "MSc" || rows[0].Fields["institute"] != "IIT" {
		t.Errorf("row 0 fields = %v", rows[0].Fields)
	}
}

func TestDecodeEmptyRowFieldsOmitted(t *testing.T) {
	raw := &RawFieldSet{}
	raw.Add("education[0][degree]", "")
	raw.Add("education[0][institute]", "   ")

	decoded := Decode(raw, ApplicationSchema)

	rows := decoded.Rows("education")
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0].Fields) != 0 {
		t.Errorf("empty values should be omitted, got %v", rows[0].Fields)
	}
}

func TestDecodeSingletonLastWriteWins(t *testing.T) {
	raw := &RawFieldSet{}
	raw.Add("bank[bankName]", "SBI")
	raw.Add("bank[bankName]", "HDFC")
	raw.Add("bank[branch]", "")

	decoded := Decode(raw, ApplicationSchema)

	bank := decoded.Singleton("bank")
	if bank["bankName"] != "HDFC" {
		t.Errorf("bankName = %q, want last-submitted value", bank["bankName"])
	}
	if _, ok := bank["branch"]; ok {
		t.Error("empty singleton values should be omitted from the map")
	}
}

func TestDecodeIgnoresUndeclaredAndMalformedKeys(t *testing.T) {
	raw := &RawFieldSet{}
	raw.Add("hobbies[0][name]", "chess")     // undeclared group
	raw.Add("education[0][shoeSize]", "42")  // undeclared field
	raw.Add("education[x][degree]", "BSc")   // non-numeric index
	raw.Add("education[0]", "dangling")      // row key without field
	raw.Add("education[0][degree", "BSc")    // unclosed bracket
	raw.Add("education[0][degree]x", "BSc")  // trailing garbage
	raw.Add("", "nothing")

	decoded := Decode(raw, ApplicationSchema)

	for _, rows := range decoded.RowGroups {
		for _, row := range rows {
			if len(row.Fields) != 0 {
				t.Errorf("malformed keys leaked into rows: %v", row.Fields)
			}
		}
	}
	if len(decoded.Singletons) != 0 {
		t.Errorf("malformed keys leaked into singletons: %v", decoded.Singletons)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := &RawFieldSet{}
	raw.Add("fullName", "Asha Verma")
	raw.Add("phone", "9876543210")
	raw.Add("employmentType", "Full-Time")
	raw.Add("employmentType", "Remote")
	raw.Add("education[3][degree]", "BSc")
	raw.Add("education[3][institute]", "DU")
	raw.Add("education[3][year]", "2019")
	raw.Add("education[3][grade]", "A")
	raw.Add("education[3][city]", "Delhi")
	raw.Add("skills[0][skill]", "Go")
	raw.Add("skills[0][level]", "Advanced")
	raw.Add("skills[0][year]", "2022")
	raw.Add("skills[0][institute]", "NIIT")
	raw.Add("bank[bankName]", "SBI")
	raw.Add("bank[ifsc]", "SBIN0001234")

	decoded := Decode(raw, ApplicationSchema)
	again := Decode(Encode(decoded, ApplicationSchema), ApplicationSchema)

	if !reflect.DeepEqual(decoded.Scalars, again.Scalars) {
		t.Errorf("scalars changed across round trip:\n%v\n%v", decoded.Scalars, again.Scalars)
	}
	if !reflect.DeepEqual(decoded.Singletons, again.Singletons) {
		t.Errorf("singletons changed across round trip:\n%v\n%v", decoded.Singletons, again.Singletons)
	}
	// Row indices are rewritten positionally by Encode; values and order
	// must survive.
	for prefix, rows := range decoded.RowGroups {
		other := again.RowGroups[prefix]
		if len(rows) != len(other) {
			t.Fatalf("%s: row count changed: %d vs %d", prefix, len(rows), len(other))
		}
		for i := range rows {
			if !reflect.DeepEqual(rows[i].Fields, other[i].Fields) {
				t.Errorf("%s row %d changed: %v vs %v", prefix, i, rows[i].Fields, other[i].Fields)
			}
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key   string
		ok    bool
		group string
		index string
		field string
		isRow bool
	}{
		{"education[0][degree]", true, "education", "0", "degree", true},
		{"education[10][city]", true, "education", "10", "city", true},
		{"bank[bankName]", true, "bank", "", "bankName", false},
		{"fullName", false, "", "", "", false},
		{"[0][degree]", false, "", "", "", false},
		{"education[][degree]", false, "", "", "", false},
		{"education[0][]", false, "", "", "", false},
		{"education[0][degree][extra]", false, "", "", "", false},
		{"education[0]degree]", false, "", "", "", false},
	}

	for _, tt := range tests {
		parsed, ok := parseKey(tt.key)
		if ok != tt.ok {
			t.Errorf("parseKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if parsed.group != tt.group || parsed.index != tt.index ||
			parsed.field != tt.field || parsed.isRow != tt.isRow {
			t.Errorf("parseKey(%q) = %+v", tt.key, parsed)
		}
	}
}
