package delimited

import (
	"reflect"
	"testing"
)

func TestTokenize_Simple(t *testing.T) {
	got := Tokenize("a,b,c\nd,e,f\n")
	want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_QuotedFieldWithDelimiter(t *testing.T) {
	got := Tokenize("unit,\"Bighorn, South\",42\n")
	want := [][]string{{"unit", "Bighorn, South", "42"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_DoubledQuote(t *testing.T) {
	got := Tokenize("\"he said \"\"draw\"\"\",2\n")
	want := [][]string{{`he said "draw"`, "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_MultiLineQuotedField(t *testing.T) {
	got := Tokenize("\"line one\nline two\",x\n")
	want := [][]string{{"line one\nline two", "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_CRLFRows(t *testing.T) {
	got := Tokenize("a,b\r\nc,d\r\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_BareCRRow(t *testing.T) {
	got := Tokenize("a,b\rc,d")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_DropsAllEmptyRows(t *testing.T) {
	got := Tokenize("a,b\n\n,,\nc,d\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected empty rows dropped, got %v", got)
	}
}

func TestTokenize_KeepsPartiallyEmptyRows(t *testing.T) {
	got := Tokenize("a,,c\n")
	want := [][]string{{"a", "", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_NoTrailingNewline(t *testing.T) {
	got := Tokenize("a,b\nc,d")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("expected no rows for empty input, got %v", got)
	}
	if got := Tokenize("\n\r\n\n"); len(got) != 0 {
		t.Errorf("expected no rows for blank input, got %v", got)
	}
}

func TestTokenize_TrailingDelimiter(t *testing.T) {
	got := Tokenize("a,b,\n")
	want := [][]string{{"a", "b", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected trailing empty field kept, got %v", got)
	}
}

func TestZipHeader(t *testing.T) {
	header := []string{" Unit Code ", "SPECIES", "Quota"}
	row := []string{"54", "elk", "120"}

	got := ZipHeader(header, row)

	want := map[string]string{"unit code": "54", "species": "elk", "quota": "120"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestZipHeader_MissingTrailingFields(t *testing.T) {
	got := ZipHeader([]string{"a", "b", "c"}, []string{"1"})

	if got["a"] != "1" {
		t.Errorf("expected a=1, got %q", got["a"])
	}
	if got["b"] != "" || got["c"] != "" {
		t.Errorf("expected missing fields to default empty, got %v", got)
	}
}

func TestZipHeader_ExtraTrailingFieldsIgnored(t *testing.T) {
	got := ZipHeader([]string{"a"}, []string{"1", "2", "3"})

	if len(got) != 1 || got["a"] != "1" {
		t.Errorf("expected only header-named fields, got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][][]string{
		{{"plain", "fields", "only"}},
		{{"with,comma", "with\"quote", "with\nnewline"}},
		{{"\"fully quoted\"", "trailing space ", " leading"}},
		{{"mixed\r\nline ends", "a,b\"c\nd", ""}},
		{{"unit 54", "Bighorn, South", "120"}, {"unit 55", "say \"when\"", "0"}},
	}

	for _, rows := range cases {
		got := Tokenize(Render(rows))
		if !reflect.DeepEqual(got, rows) {
			t.Errorf("round trip mismatch:\n in: %q\nout: %q", rows, got)
		}
	}
}
