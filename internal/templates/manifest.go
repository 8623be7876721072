package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/apigen/internal/errors"
)

// ManifestFile is the manifest name at a template root. It is never copied.
const ManifestFile = "template.yaml"

//go:embed manifest.cue
var manifestSchema []byte

// Layout lists the directories scaffolded before any file is copied.
type Layout struct {
	// PackageRoot is the application package. It and every directory below it
	// receive a marker file.
	PackageRoot string `yaml:"packageRoot,omitempty"`

	// Marker is the package marker file name.
	Marker string `yaml:"marker,omitempty"`

	// Dirs are created in order, relative to the project root.
	Dirs []string `yaml:"dirs,omitempty"`
}

// EnvFile is the example/target pair for the environment file.
type EnvFile struct {
	Example string `yaml:"example"`
	Target  string `yaml:"target"`
}

// Manifest describes how a template tree becomes a project.
type Manifest struct {
	Name               string              `yaml:"name"`
	Description        string              `yaml:"description,omitempty"`
	Placeholder        string              `yaml:"placeholder"`
	DisplayPlaceholder string              `yaml:"displayPlaceholder,omitempty"`
	TextExtensions     []string            `yaml:"textExtensions,omitempty"`
	Layout             Layout              `yaml:"layout,omitempty"`
	EnvFile            EnvFile             `yaml:"envFile,omitempty"`
	Requirements       string              `yaml:"requirements,omitempty"`
	Exclude            []string            `yaml:"exclude,omitempty"`
	Features           map[string][]string `yaml:"features,omitempty"`
}

// IsText reports whether the file at rel gets placeholder substitution.
// Entries match either the extension or the whole base name.
func (m *Manifest) IsText(rel string) bool {
	base := path.Base(rel)
	ext := path.Ext(base)
	for _, e := range m.TextExtensions {
		if e == base || (ext != "" && e == ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether rel matches an exclude pattern. Patterns are
// matched against both the full relative path and the base name.
func (m *Manifest) Excluded(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range m.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// FeatureNames returns the manifest's feature names, sorted.
func (m *Manifest) FeatureNames() []string {
	names := make([]string, 0, len(m.Features))
	for name := range m.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadManifest reads and validates template.yaml from the root of fsys.
// A tree without a manifest uses the built-in default manifest.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultManifest()
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	if err := validateManifest(data); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ManifestFile, err)
	}
	m.applyDefaults()
	return &m, nil
}

// DefaultManifest returns the manifest of the built-in default template.
func DefaultManifest() (*Manifest, error) {
	data, err := fs.ReadFile(builtinFS, path.Join(DefaultTemplateName, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading built-in manifest: %w", err)
	}
	return ParseManifest(data)
}

func (m *Manifest) applyDefaults() {
	if m.Layout.Marker == "" {
		m.Layout.Marker = "__init__.py"
	}
	if m.Requirements == "" {
		m.Requirements = "requirements.txt"
	}
}

// validateManifest unifies the YAML document with #Manifest.
func validateManifest(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return oerrors.NewValidationError(fmt.Sprintf("invalid YAML: %v", err), ManifestFile, "")
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(manifestSchema, cue.Filename("manifest.cue"))
	if schema.Err() != nil {
		return fmt.Errorf("compiling manifest schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Manifest"))

	value := ctx.Encode(raw)
	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		seen := make(map[string]bool)
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			msg := fmt.Sprintf(format, args...)
			if p := manifestField(e.Path()); p != "" {
				msg = p + ": " + msg
			}
			if !seen[msg] {
				seen[msg] = true
				msgs = append(msgs, msg)
			}
		}
		return oerrors.NewValidationError(
			"template manifest is invalid: "+strings.Join(msgs, "; "),
			ManifestFile,
			"Feature keys must be one of container, fast-installer, migrations, tests.",
		)
	}
	return nil
}

// manifestField joins a CUE error path without the #Manifest definition.
func manifestField(path []string) string {
	if len(path) > 0 && path[0] == "#Manifest" {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
