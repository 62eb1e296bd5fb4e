package jsonutil

import (
	"testing"
)

func TestUnmarshalWithContext(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "valid JSON",
			data:    []byte(`{"name":"test"}`),
			wantErr: false,
		},
		{
			name:    "invalid JSON",
			data:    []byte(`not json`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v TestStruct
			err := UnmarshalWithContext(tt.data, &v, "test context")
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalWithContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Name != "test" {
				t.Errorf("UnmarshalWithContext() v.Name = %q, want %q", v.Name, "test")
			}
		})
	}
}

func TestUnmarshalWithContext_WrapsContext(t *testing.T) {
	var v map[string]interface{}
	err := UnmarshalWithContext([]byte(`{`), &v, "decode result")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); len(got) < len("decode result: ") || got[:len("decode result: ")] != "decode result: " {
		t.Errorf("expected context prefix, got %q", got)
	}
}

func TestLookupString(t *testing.T) {
	m := map[string]interface{}{
		"str":   "value",
		"empty": "",
		"num":   42.0,
		"nil":   nil,
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"str", "value", true},
		{"empty", "", true},
		{"num", "", false},
		{"nil", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := LookupString(m, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("LookupString(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGetString(t *testing.T) {
	m := map[string]interface{}{
		"str":  "value",
		"num":  42.0,
		"bool": true,
	}
	if got := GetString(m, "str"); got != "value" {
		t.Errorf("GetString(str) = %q", got)
	}
	if got := GetString(m, "num"); got != "" {
		t.Errorf("GetString(num) = %q", got)
	}
	if got := GetString(m, "missing"); got != "" {
		t.Errorf("GetString(missing) = %q", got)
	}
}
