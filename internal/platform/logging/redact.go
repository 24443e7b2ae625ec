package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// sensitiveFields are attribute and struct field names whose values never
// reach a log sink.
var sensitiveFields = []string{
	"password", "secret", "token",
	"apiKey", "api_key", "accessToken", "access_token",
	"authorization", "auth", "cookie", "privateKey", "secretKey",
	"dsn", "DSN", "webhook_token", "WebhookToken",
}

var sensitivePrefixes = []string{"secret", "private"}

// sensitiveValues match credentials regardless of the attribute name.
var sensitiveValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`),
	// user:pass@host DSNs, with or without a scheme (mysql uses user:pass@tcp(...)).
	regexp.MustCompile(`^([a-z][a-z0-9+.-]*://)?[^\s:/@]+:[^\s@]+@`),
}

// DefaultRedactOptions returns the masq rules every handler built by New
// applies.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+len(sensitivePrefixes)+len(sensitiveValues))

	for _, f := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(f))
	}

	for _, p := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(p))
	}

	for _, re := range sensitiveValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr hook applying the default rules
// plus extra.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}
