package textkv

import (
	"errors"
	"testing"
)

func TestPullValue(t *testing.T) {
	text := `{"type":"TALON_SRX","id":3, "speed" : 0.250000,"inverted":false}`

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "quoted value", key: `"type"`, want: `"TALON_SRX"`},
		{name: "integer value", key: `"id"`, want: "3"},
		{name: "spaces around colon", key: `"speed"`, want: "0.250000"},
		{name: "last value before brace", key: `"inverted"`, want: "false"},
		{name: "missing key", key: `"missing"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PullValue(tt.key, text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PullValue(%s) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrKeyNotFound) {
					t.Errorf("PullValue(%s) error = %v, want ErrKeyNotFound", tt.key, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("PullValue(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestPullValue_QuotedSeparators(t *testing.T) {
	text := `{"name":"a,b}c","id":7}`

	got, err := PullValue(`"name"`, text)
	if err != nil {
		t.Fatalf("PullValue() error = %v", err)
	}
	if got != `"a,b}c"` {
		t.Errorf("PullValue() = %q, want %q", got, `"a,b}c"`)
	}

	got, err = PullValue(`"id"`, text)
	if err != nil {
		t.Fatalf("PullValue() error = %v", err)
	}
	if got != "7" {
		t.Errorf("PullValue() = %q, want 7", got)
	}
}

func TestPullValue_KeyWithoutColon(t *testing.T) {
	// The first occurrence of "id" is inside a value and must be skipped.
	text := `{"note":"id","id":9}`

	got, err := PullValue(`"id"`, text)
	if err != nil {
		t.Fatalf("PullValue() error = %v", err)
	}
	if got != "9" {
		t.Errorf("PullValue() = %q, want 9", got)
	}
}

func TestQuoteUnquote(t *testing.T) {
	for _, s := range []string{"", "VICTOR_SPX", `with "quotes"`} {
		got, err := Unquote(Quote(s))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)) error = %v", s, err)
		}
		if got != s {
			t.Errorf("Unquote(Quote(%q)) = %q", s, got)
		}
	}

	if _, err := Unquote("not quoted"); err == nil {
		t.Error("Unquote() expected error for unquoted input")
	}
}
