package templates

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	oerrors "github.com/opmodel/apigen/internal/errors"
)

// projectNameRegex: an ASCII letter followed by letters, digits, underscores or hyphens.
var projectNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateName checks a project name before anything touches the filesystem.
func ValidateName(name string) error {
	if !projectNameRegex.MatchString(name) {
		return oerrors.NewInvalidNameError(name)
	}
	return nil
}

// DisplayName turns a project name into a title, e.g. "my_service" -> "My Service".
func DisplayName(name string) string {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.Und).String(spaced)
}
