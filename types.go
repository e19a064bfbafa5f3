package captcha

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Task result statuses reported by the service.
const (
	statusReady      = "ready"
	statusFailed     = "failed"
	statusProcessing = "processing"
)

// taskID tolerates both wire encodings of task identifiers: 2captcha and
// Anti-Captcha return numbers, Capsolver returns strings.
type taskID string

func (t *taskID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*t = taskID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("taskId is neither string nor number: %w", err)
	}
	*t = taskID(n.String())
	return nil
}

type taskPayload struct {
	Type       string `json:"type"`
	WebsiteURL string `json:"websiteURL"`
	WebsiteKey string `json:"websiteKey"`
}

type createTaskRequest struct {
	ClientKey string      `json:"clientKey"`
	Task      taskPayload `json:"task"`
}

type createTaskResponse struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
	TaskID           taskID `json:"taskId"`
}

type taskResultRequest struct {
	ClientKey string `json:"clientKey"`
	TaskID    string `json:"taskId"`
}

type taskSolution struct {
	GRecaptchaResponse string `json:"gRecaptchaResponse"`
	Token              string `json:"token"`
}

// token returns the solution token regardless of which field the service
// populated. 2captcha uses gRecaptchaResponse, Capsolver uses token.
func (s taskSolution) token() string {
	if s.GRecaptchaResponse != "" {
		return s.GRecaptchaResponse
	}
	return s.Token
}

type taskResultResponse struct {
	ErrorID          int          `json:"errorId"`
	ErrorCode        string       `json:"errorCode"`
	ErrorDescription string       `json:"errorDescription"`
	Status           string       `json:"status"`
	Solution         taskSolution `json:"solution"`
}

type balanceRequest struct {
	ClientKey string `json:"clientKey"`
}

type balanceResponse struct {
	ErrorID          int     `json:"errorId"`
	ErrorCode        string  `json:"errorCode"`
	ErrorDescription string  `json:"errorDescription"`
	Balance          float64 `json:"balance"`
}
