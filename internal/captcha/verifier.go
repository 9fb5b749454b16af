package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultVerifyURL is Google's reCAPTCHA verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

const defaultTimeout = 5 * time.Second

// Verifier checks a client-supplied proof token against a
// human-verification oracle.
type Verifier interface {
	Verify(ctx context.Context, proofToken string) bool
}

type siteVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
	logger    logrus.FieldLogger
}

// NewVerifier builds a Verifier against the given siteverify endpoint.
// Empty verifyURL selects DefaultVerifyURL; a non-positive timeout selects
// the default.
func NewVerifier(secret, verifyURL string, timeout time.Duration, logger logrus.FieldLogger) Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &siteVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Verify is fail-closed: a network error, timeout, non-200 status, or
// malformed oracle response all count as rejection.
func (v *siteVerifier) Verify(ctx context.Context, proofToken string) bool {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", proofToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Warnf("captcha request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warnf("captcha verify: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Warnf("captcha verify status: %s", resp.Status)
		return false
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.logger.Warnf("captcha response decode: %v", err)
		return false
	}
	return payload.Success
}
