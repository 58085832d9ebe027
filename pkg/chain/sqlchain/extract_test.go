package sqlchain

import "testing"

// TestExtractCommand verifies the ordered extraction strategies.
func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "between SQLQuery and SQLResult markers",
			text: "SQLQuery: SELECT 1 FROM T\nSQLResult: ...",
			want: " SELECT 1 FROM T",
		},
		{
			name: "multiline command between markers",
			text: "SQLQuery:\nSELECT a\nFROM t\nSQLResult: rows",
			want: "\nSELECT a\nFROM t",
		},
		{
			name: "fallback on Answer marker strips semicolons",
			text: "SELECT * FROM t;\nAnswer: done",
			want: "SELECT * FROM t",
		},
		{
			name: "fallback on SQLResult marker without SQLQuery",
			text: "SELECT 2;\nSQLResult: whatever",
			want: "SELECT 2",
		},
		{
			name: "earlier marker wins",
			text: "SELECT 3\nSQLResult: x\nAnswer: y",
			want: "SELECT 3",
		},
		{
			name: "no markers returns whole text",
			text: "SELECT name FROM users",
			want: "SELECT name FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCommand(tt.text); got != tt.want {
				t.Errorf("ExtractCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
