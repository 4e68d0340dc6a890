package claude

import (
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantAdj  int
		wantErr  bool
	}{
		{
			name:     "plain json",
			raw:      `{"conflict_type":"SIGNIFICANT","conflicts":["revenue miss"],"score_adjustment":-2,"explanation":"guidance cut"}`,
			wantType: "SIGNIFICANT",
			wantAdj:  -2,
		},
		{
			name:     "fenced json",
			raw:      "```json\n{\"conflict_type\":\"NONE\",\"conflicts\":[],\"score_adjustment\":1,\"explanation\":\"confirms thesis\"}\n```",
			wantType: "NONE",
			wantAdj:  1,
		},
		{
			name:     "json with surrounding prose",
			raw:      "Here is my analysis:\n{\"conflict_type\":\"CRITICAL\",\"conflicts\":[\"fraud\"],\"score_adjustment\":-4,\"explanation\":\"core invalidated\"}\nLet me know.",
			wantType: "CRITICAL",
			wantAdj:  -4,
		},
		{name: "no json", raw: "I cannot classify this.", wantErr: true},
		{name: "missing conflict_type", raw: `{"score_adjustment":-1}`, wantErr: true},
		{name: "malformed", raw: `{"conflict_type": "MINOR",`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseResponse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResponse() error = %v", err)
			}
			if parsed.ConflictType != tt.wantType {
				t.Errorf("ConflictType = %s, want %s", parsed.ConflictType, tt.wantType)
			}
			if parsed.ScoreAdjustment != tt.wantAdj {
				t.Errorf("ScoreAdjustment = %d, want %d", parsed.ScoreAdjustment, tt.wantAdj)
			}
		})
	}
}
