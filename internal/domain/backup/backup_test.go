package backup_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"inoffice/internal/domain/backup"
	"inoffice/internal/domain/datekey"
)

// TestParse_Valid tests parsing of well-formed backup documents.
func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"empty array", `[]`, []string{}},
		{"single entry", `["2025-02-01"]`, []string{"2025-02-01"}},
		{"several entries", `["2025-02-01","2025-02-15","2025-03-01"]`, []string{"2025-02-01", "2025-02-15", "2025-03-01"}},
		{"duplicates preserved", `["2025-02-01","2025-02-01"]`, []string{"2025-02-01", "2025-02-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := backup.Parse(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Parse error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestParse_Rejection tests that malformed documents reject the whole batch.
func TestParse_Rejection(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not JSON", `not json`},
		{"top-level object", `{"days":["2025-02-01"]}`},
		{"top-level string", `"2025-02-01"`},
		{"number entry", `["2025-02-01", 42]`},
		{"null entry", `[null]`},
		{"nested array entry", `[["2025-02-01"]]`},
		{"malformed date", `["2025-02-01","02/15/2025"]`},
		{"impossible date", `["2025-02-01","2025-02-30"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := backup.Parse(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("Parse(%s) succeeded, want error", tt.doc)
			}
		})
	}
}

// TestParse_InvalidEntryError tests that codec errors surface unwrapped.
func TestParse_InvalidEntryError(t *testing.T) {
	_, err := backup.Parse(strings.NewReader(`["2025-13-01"]`))
	if !errors.Is(err, datekey.ErrInvalidCalendarDate) {
		t.Errorf("error = %v, want ErrInvalidCalendarDate", err)
	}
	_, err = backup.Parse(strings.NewReader(`["2025-1-1"]`))
	if !errors.Is(err, datekey.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

// TestParse_EntryLimit tests the 10,000-entry cap.
func TestParse_EntryLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i <= backup.MaxEntries; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"2025-01-15"`)
	}
	b.WriteString("]")

	_, err := backup.Parse(strings.NewReader(b.String()))
	if !errors.Is(err, backup.ErrTooManyEntries) {
		t.Errorf("error = %v, want ErrTooManyEntries", err)
	}
}

// TestParse_StripsDangerousKeys tests that prototype-pollution keys are
// removed rather than applied. A document carrying such objects still fails
// shape validation, but the stripped key must never survive the parse.
func TestParse_StripsDangerousKeys(t *testing.T) {
	docs := []string{
		`[{"__proto__":{"polluted":true}}]`,
		`[{"constructor":"x"}]`,
		`{"prototype":{"a":1},"days":[]}`,
	}
	for _, doc := range docs {
		if _, err := backup.Parse(strings.NewReader(doc)); err == nil {
			t.Errorf("Parse(%s) succeeded, want shape error", doc)
		}
	}
}

// TestWrite tests the export writer output.
func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := backup.Write(&buf, []string{"2025-02-15", "2025-01-01", "2025-02-01"}); err != nil {
		t.Fatalf("Write error = %v", err)
	}
	want := `["2025-01-01","2025-02-01","2025-02-15"]` + "\n"
	if buf.String() != want {
		t.Errorf("Write = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := backup.Write(&buf, nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("Write(nil) = %q, want empty array", buf.String())
	}

	// Round trip: written output parses back.
	keys, err := backup.Parse(strings.NewReader(`["2025-01-01","2025-02-01","2025-02-15"]`))
	if err != nil || len(keys) != 3 {
		t.Errorf("round trip failed: keys=%v err=%v", keys, err)
	}
}

// TestValidMode tests the import mode whitelist.
func TestValidMode(t *testing.T) {
	if !backup.ValidMode(backup.ModeReplace) || !backup.ValidMode(backup.ModeMerge) {
		t.Error("replace and merge must be valid modes")
	}
	for _, mode := range []string{"", "REPLACE", "append", "delete"} {
		if backup.ValidMode(mode) {
			t.Errorf("ValidMode(%q) = true, want false", mode)
		}
	}
}
