package templates

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTemplateName is the template used when --template is not specified.
const DefaultTemplateName = "fastapi"

// registry is the internal registry of built-in templates.
var registry = map[string]Template{
	"fastapi": {
		Name:        "fastapi",
		Description: "FastAPI CRUD service with SQLAlchemy, Alembic and pytest",
		Default:     true,
	},
}

func unknownTemplateError(name string) error {
	return fmt.Errorf("unknown template %q; valid templates: %s", name, strings.Join(Names(), ", "))
}

// Get returns a template by name.
func Get(name string) (Template, error) {
	t, ok := registry[name]
	if !ok {
		return Template{}, unknownTemplateError(name)
	}
	return t, nil
}

// List returns all built-in templates sorted by name.
func List() []Template {
	list := make([]Template, 0, len(registry))
	for _, name := range Names() {
		list = append(list, registry[name])
	}
	return list
}

// GetDefault returns the default template.
func GetDefault() Template {
	return registry[DefaultTemplateName]
}

// Names returns all template names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
