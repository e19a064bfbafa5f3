package captcha

import (
	"encoding/json"
	"testing"
)

func TestTaskIDDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		wantErr  bool
	}{
		{"string id", `{"taskId":"abc-123"}`, "abc-123", false},
		{"numeric id", `{"taskId":77123456}`, "77123456", false},
		{"null id", `{"taskId":null}`, "", false},
		{"missing id", `{}`, "", false},
		{"object id", `{"taskId":{"x":1}}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp createTaskResponse
			err := json.Unmarshal([]byte(tt.body), &resp)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected decode error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(resp.TaskID) != tt.expected {
				t.Fatalf("taskId = %q, want %q", resp.TaskID, tt.expected)
			}
		})
	}
}

func TestSolutionTokenPrecedence(t *testing.T) {
	s := taskSolution{GRecaptchaResponse: "grc", Token: "tok"}
	if s.token() != "grc" {
		t.Fatal("gRecaptchaResponse should win when both fields are set")
	}

	s = taskSolution{Token: "tok"}
	if s.token() != "tok" {
		t.Fatal("token field should be used as fallback")
	}

	if (taskSolution{}).token() != "" {
		t.Fatal("empty solution should yield empty token")
	}
}
