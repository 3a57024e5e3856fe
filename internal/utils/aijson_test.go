package utils

import (
	"testing"
)

func TestParseModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"bedRoom": 3, "address": "Delhi"}`,
			want: map[string]interface{}{
				"bedRoom": float64(3),
				"address": "Delhi",
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"Greeting": false, "Property_Related": true}` + "\n```",
			want: map[string]interface{}{
				"Greeting":         false,
				"Property_Related": true,
			},
			wantErr: false,
		},
		{
			name: "Code block without language tag",
			input: "```\n" +
				`{"balcony": 2}` + "\n```",
			want: map[string]interface{}{
				"balcony": float64(2),
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding prose",
			input: `Sure, here is the extraction: {"Price_in_Crore": 1.5} hope that helps.`,
			want: map[string]interface{}{
				"Price_in_Crore": float64(1.5),
			},
			wantErr: false,
		},
		{
			name:  "JSON with trailing comma",
			input: `{"bedRoom": 2, "bathroom": 2,}`,
			want: map[string]interface{}{
				"bedRoom":  float64(2),
				"bathroom": float64(2),
			},
			wantErr: false,
		},
		{
			name:  "Braces inside string values",
			input: `Result: {"address": "Sector {21}", "bedRoom": 3}`,
			want: map[string]interface{}{
				"address": "Sector {21}",
				"bedRoom": float64(3),
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Whitespace only",
			input:   "   \n\t",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "No JSON at all",
			input:   "I could not find any properties matching that.",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseModelJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseModelJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if len(got) != len(tt.want) {
				t.Errorf("ParseModelJSON() got = %v, want %v", got, tt.want)
				return
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseModelJSON() key %q = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestUnfence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Fenced with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "Fenced without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "Fenced array",
			input: "```json\n[1, 2]\n```",
			want:  `[1, 2]`,
		},
		{
			name:  "No fence",
			input: `{"test": true}`,
			want:  "",
		},
		{
			name:  "Fenced non-JSON body",
			input: "```\nplain text\n```",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unfence(tt.input); got != tt.want {
				t.Errorf("unfence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "Nested objects",
			input: `{"a": {"b": 2}}`,
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "Braces inside a string literal",
			input: `{"text": "hello {world}"}`,
			want:  `{"text": "hello {world}"}`,
		},
		{
			name:  "Escaped quote inside a string",
			input: `{"text": "say \"hi\" {x}"}`,
			want:  `{"text": "say \"hi\" {x}"}`,
		},
		{
			name:  "Prose around the object",
			input: `prefix {"a": 1} suffix {"b": 2}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "Unbalanced",
			input: `{"a": 1`,
			want:  "",
		},
		{
			name:  "No object",
			input: "nothing here",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstJSONObject(tt.input); got != tt.want {
				t.Errorf("firstJSONObject() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStripTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Trailing comma in object",
			input: `{"a": 1,}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "Trailing comma in array",
			input: `[1, 2,]`,
			want:  `[1, 2]`,
		},
		{
			name:  "Comma with whitespace",
			input: "{\"a\": 1,\n}",
			want:  `{"a": 1}`,
		},
		{
			name:  "Nothing to strip",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTrailingCommas(tt.input); got != tt.want {
				t.Errorf("stripTrailingCommas() = %v, want %v", got, tt.want)
			}
		})
	}
}
