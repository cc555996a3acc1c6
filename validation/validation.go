// Package validation runs declarative per-field rule chains before a handler
// body executes. Every field is evaluated and every violation collected; the
// caller short-circuits with a 400 when the result is non-empty.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type Violation struct {
	Msg string `json:"msg"`
}

type step struct {
	check    func(string) string
	sanitize func(string) string
}

// FieldRule is an ordered chain of checks and sanitizers for one field.
type FieldRule struct {
	field string
	steps []step
}

func Field(name string) *FieldRule {
	return &FieldRule{field: name}
}

func (r *FieldRule) Trim() *FieldRule {
	r.steps = append(r.steps, step{sanitize: strings.TrimSpace})
	return r
}

func (r *FieldRule) Length(min, max int, msg string) *FieldRule {
	r.steps = append(r.steps, step{check: func(value string) string {
		// bounds are in characters, not bytes
		if n := utf8.RuneCountInString(value); n < min || n > max {
			return msg
		}
		return ""
	}})
	return r
}

func (r *FieldRule) NotEmpty(msg string) *FieldRule {
	r.steps = append(r.steps, step{check: func(value string) string {
		if value == "" {
			return msg
		}
		return ""
	}})
	return r
}

func (r *FieldRule) Email(msg string) *FieldRule {
	r.steps = append(r.steps, step{check: func(value string) string {
		if err := validate.Var(value, "required,email"); err != nil {
			return msg
		}
		return ""
	}})
	return r
}

// Custom adds a predicate check; a false result records msg.
func (r *FieldRule) Custom(pred func(string) bool, msg string) *FieldRule {
	r.steps = append(r.steps, step{check: func(value string) string {
		if !pred(value) {
			return msg
		}
		return ""
	}})
	return r
}

func (r *FieldRule) Sanitize(fn func(string) string) *FieldRule {
	r.steps = append(r.steps, step{sanitize: fn})
	return r
}

// Run evaluates every rule against values, applying sanitizers in place.
// It returns the sanitized values and all violations across all fields.
func Run(values map[string]string, rules ...*FieldRule) (map[string]string, []Violation) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}

	var violations []Violation
	for _, rule := range rules {
		value := out[rule.field]
		for _, s := range rule.steps {
			if s.sanitize != nil {
				value = s.sanitize(value)
				continue
			}
			if msg := s.check(value); msg != "" {
				violations = append(violations, Violation{Msg: msg})
			}
		}
		out[rule.field] = value
	}

	return out, violations
}

// ValidUsername reports whether value stays inside the allowed charset and
// contains at least three alphabetic characters.
func ValidUsername(value string) bool {
	if !usernameCharset.MatchString(value) {
		return false
	}
	letters := 0
	for _, r := range value {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}
