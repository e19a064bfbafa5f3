package captcha

import "context"

// Solver abstracts task-based CAPTCHA solving services (2captcha, Anti-Captcha,
// Capsolver — anything speaking the createTask/getTaskResult protocol).
type Solver interface {
	// Solve submits a CAPTCHA challenge and returns the solution token.
	// siteKey is the widget's public site key, pageURL is the page hosting
	// the challenge. Site keys are domain-bound: siteKey must come from the
	// exact page the solve applies to.
	Solve(ctx context.Context, siteKey, pageURL string) (token string, err error)

	// Balance returns the account balance in USD.
	Balance(ctx context.Context) (float64, error)
}
