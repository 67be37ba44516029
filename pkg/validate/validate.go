// Package validate holds the pure input checks shared by the interactive
// prompts and the flag-driven command paths. Keeping them free of any I/O
// makes the rules testable without a terminal.
package validate

import (
	"net/url"
	"strings"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

// ClaimText checks the free-text body of a claim.
func ClaimText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errs.Precondition("claim text must not be empty")
	}
	return nil
}

// ClaimType checks a claim type token. Types are lowercase identifiers like
// "statement" or "prediction"; the server treats unknown types as opaque.
func ClaimType(claimType string) error {
	if claimType == "" {
		return errs.Precondition("claim type must not be empty")
	}
	for _, r := range claimType {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return errs.Precondition("claim type %q must contain only lowercase letters, digits, '-' or '_'", claimType)
		}
	}
	return nil
}

// Confidence checks a proof confidence value. The network scores proofs on
// a [0,1] scale.
func Confidence(confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return errs.Precondition("confidence must be between 0 and 1, got %v", confidence)
	}
	return nil
}

// ProofAction checks a proof action token.
func ProofAction(action string) error {
	switch action {
	case "confirm", "dispute", "invalidate":
		return nil
	}
	return errs.Precondition("proof action must be one of confirm, dispute, invalidate; got %q", action)
}

// Evidence checks a list of evidence links. Every entry must be an absolute
// http or https URL with a host.
func Evidence(links []string) error {
	for _, link := range links {
		if err := HTTPURL(link, "evidence link"); err != nil {
			return err
		}
	}
	return nil
}

// ServerURL checks the truth network endpoint supplied via config or flag.
func ServerURL(raw string) error {
	return HTTPURL(raw, "server URL")
}

// HTTPURL checks that raw is an absolute http(s) URL with a hostname.
func HTTPURL(raw, what string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return errs.Precondition("%s %q is not a valid URL: %v", what, raw, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return errs.Precondition("%s %q must use http or https", what, raw)
	}
	if parsed.Hostname() == "" {
		return errs.Precondition("%s %q must have a hostname", what, raw)
	}
	return nil
}

// Triple checks a semantic subject/predicate/object annotation. A triple is
// all-or-nothing: either no parts are given, or all three are non-empty.
func Triple(subject, predicate, object string) error {
	parts := []string{subject, predicate, object}
	empty := 0
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			empty++
		}
	}
	switch empty {
	case 3:
		return nil
	case 0:
		return nil
	}
	return errs.Precondition("semantic triple needs subject, predicate and object together")
}
