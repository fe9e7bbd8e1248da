package scenefile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var indexRe = regexp.MustCompile(`\[(\d+)\]`)

// ValidationError wraps the field errors of a document that does not match
// the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid scene document: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FormatLoadError turns a Load or Parse error into a user-facing message.
func FormatLoadError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	var fields validator.ValidationErrors
	var res *ResolveError
	switch {
	case errors.As(err, &fields):
		b.WriteString("Scene document does not match the schema.\n")
		for _, fe := range fields {
			msg, hint := classifyField(fe)
			fmt.Fprintf(&b, "- %s\n", msg)
			fmt.Fprintf(&b, "  Location: %s\n", fieldPath(fe.Namespace()))
			if hint != "" {
				fmt.Fprintf(&b, "  How to fix: %s\n", hint)
			}
		}
	case errors.As(err, &res):
		b.WriteString("Scene document has broken references.\n")
		for _, p := range res.Problems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	default:
		fmt.Fprintf(&b, "Scene document could not be loaded.\n- %s\n", err)
	}
	return b.String()
}

// fieldPath rewrites "Document.Root.Children[0].Name" as root.children.0.name.
func fieldPath(ns string) string {
	ns = strings.TrimPrefix(ns, "Document.")
	ns = indexRe.ReplaceAllString(ns, ".$1")
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func classifyField(fe validator.FieldError) (msg, hint string) {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field()), ""
	case "required_if", "required_without":
		return fmt.Sprintf("%s is required here.", fe.Field()), fmt.Sprintf("Set %s, it is required when %s.", fe.Field(), fe.Param())
	case "excluded_with":
		return fmt.Sprintf("%s must not be set together with %s.", fe.Field(), fe.Param()), ""
	case "oneof":
		return fmt.Sprintf("%s has unsupported value %v.", fe.Field(), fe.Value()), "Use one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range.", fe.Field()), fmt.Sprintf("The value must be %s %s.", fe.Tag(), fe.Param())
	case "excludesall":
		return fmt.Sprintf("%s contains a reserved character.", fe.Field()), "Object names cannot contain \"/\"."
	}
	return fmt.Sprintf("%s failed the %q check.", fe.Field(), fe.Tag()), ""
}
