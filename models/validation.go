package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a single field-level rule violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every violation found on a record.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Field returns the first violation for field, or nil.
func (v ValidationErrors) Field(field string) *ValidationError {
	for _, e := range v {
		if e.Field == field {
			return e
		}
	}
	return nil
}

// collect merges the non-nil results of field validators.
func collect(errs ...error) error {
	var out ValidationErrors
	for _, err := range errs {
		var ve *ValidationError
		if errors.As(err, &ve) {
			out = append(out, ve)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	validate       = validator.New()
	subdomainRegex = regexp.MustCompile(`^[a-z\d-]+$`)
)

// ReservedSubdomains cannot be claimed by a team.
var ReservedSubdomains = map[string]bool{
	"about": true, "account": true, "add": true, "admin": true, "advertising": true,
	"ads": true, "api": true, "app": true, "archive": true, "assets": true,
	"auth": true, "beta": true, "billing": true, "blog": true, "cache": true,
	"cdn": true, "code": true, "community": true, "dashboard": true, "developer": true,
	"developers": true, "docs": true, "files": true, "forum": true, "ftp": true,
	"help": true, "home": true, "http": true, "https": true, "imap": true,
	"localhost": true, "mail": true, "marketing": true, "mobile": true, "new": true,
	"news": true, "newsletter": true, "photos": true, "pop": true, "pop3": true,
	"public": true, "press": true, "register": true, "secure": true, "services": true,
	"signin": true, "signup": true, "smtp": true, "staging": true, "static": true,
	"status": true, "store": true, "support": true, "team": true, "teams": true,
	"test": true, "web": true, "www": true, "zones": true,
}

func ValidateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 255 {
		return invalid("name", "must be between 2 and 255 characters")
	}
	if isBareURL(name) {
		return invalid("name", "must not be a URL")
	}
	return nil
}

func ValidateSubdomain(subdomain string) error {
	if !subdomainRegex.MatchString(subdomain) {
		return invalid("subdomain", "can only contain lowercase letters, numbers and dashes")
	}
	if n := len(subdomain); n < 2 || n > 32 {
		return invalid("subdomain", "must be between 2 and 32 characters")
	}
	if ReservedSubdomains[subdomain] {
		return invalid("subdomain", "%q is reserved", subdomain)
	}
	return nil
}

func ValidateDomain(domain string) error {
	if len(domain) > 255 {
		return invalid("domain", "must be at most 255 characters")
	}
	if strings.HasSuffix(domain, ".") || !isFQDN(domain) {
		return invalid("domain", "must be a fully qualified domain name")
	}
	return nil
}

func ValidateAvatarURL(avatarURL string) error {
	if len(avatarURL) > 4096 {
		return invalid("avatar_url", "must be at most 4096 characters")
	}
	// uploaded avatars are stored as paths on this host
	if strings.HasPrefix(avatarURL, "/") && !strings.HasPrefix(avatarURL, "//") {
		if validate.Var(avatarURL, "uri") == nil {
			return nil
		}
	}
	if validate.Var(avatarURL, "http_url") != nil {
		return invalid("avatar_url", "must be a valid URL")
	}
	return nil
}

func ValidateDefaultUserRole(role UserRole) error {
	switch role {
	case UserRoleViewer, UserRoleMember:
		return nil
	}
	return invalid("default_user_role", "must be one of %q, %q", UserRoleViewer, UserRoleMember)
}

func isFQDN(s string) bool {
	return validate.Var(s, "fqdn") == nil
}

// isBareURL reports whether s, taken as a whole, is a link or a host name
// rather than free text.
func isBareURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if strings.Contains(s, "://") && validate.Var(s, "url") == nil {
		return true
	}
	host := s
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return isFQDN(host)
}
