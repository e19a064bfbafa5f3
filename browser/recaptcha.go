package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// reCAPTCHA v2 DOM conventions.
const (
	WidgetSelector  = ".g-recaptcha"
	SiteKeyAttr     = "data-sitekey"
	ResponseFieldID = "g-recaptcha-response"
)

// SiteKey extracts the reCAPTCHA site key from rendered page HTML. It checks
// the standard widget container first, then any element carrying the
// attribute. Site keys are domain-bound, so only extract from the page the
// solve will be applied to.
func SiteKey(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("browser: parse html: %w", err)
	}
	if v, ok := doc.Find(WidgetSelector).First().Attr(SiteKeyAttr); ok && v != "" {
		return v, nil
	}
	if v, ok := doc.Find("[" + SiteKeyAttr + "]").First().Attr(SiteKeyAttr); ok && v != "" {
		return v, nil
	}
	return "", errors.New("browser: no " + SiteKeyAttr + " found on page")
}

// SiteKey reads the reCAPTCHA site key from the live page.
func (p *Page) SiteKey() (string, error) {
	html, err := p.Content()
	if err != nil {
		return "", err
	}
	return SiteKey(html)
}

// SubmitSolution injects a solved token into the page's response field,
// submits the enclosing form, and waits for the resulting navigation.
// The load listener is registered before the form is submitted so a fast
// navigation cannot slip past it.
func (p *Page) SubmitSolution(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("browser: empty solution token")
	}

	loaded, stop := p.loadSignal()
	defer stop()

	if err := p.SetFieldValue(ResponseFieldID, token); err != nil {
		return err
	}
	if err := p.submitEnclosingForm(ResponseFieldID); err != nil {
		return err
	}

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// submitEnclosingForm submits the form containing the element with the given
// id, falling back to the page's first form when the field sits outside one.
func (p *Page) submitEnclosingForm(id string) error {
	expr := fmt.Sprintf(`(function(id) {
		const el = document.getElementById(id);
		const form = (el && el.closest("form")) || document.querySelector("form");
		if (!form) throw new Error("no form to submit");
		form.submit();
	})(%s)`, jsString(id))

	if err := chromedp.Run(p.ctx, chromedp.Evaluate(expr, nil)); err != nil {
		return fmt.Errorf("browser: submit form: %w", err)
	}
	return nil
}
