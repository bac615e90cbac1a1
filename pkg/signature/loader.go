package signature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// signatureFile is the YAML shape of a per-app signature file.
type signatureFile struct {
	App        string    `yaml:"app"`
	Signatures []sigSpec `yaml:"signatures"`
}

type sigSpec struct {
	Screen         string   `yaml:"screen"`
	Description    string   `yaml:"description"`
	Priority       int      `yaml:"priority"`
	SafeState      bool     `yaml:"safeState"`
	Required       []string `yaml:"required"`
	Forbidden      []string `yaml:"forbidden"`
	Unique         []string `yaml:"unique"`
	Optional       []string `yaml:"optional"`
	RecoveryAction string   `yaml:"recoveryAction"`
}

// Load parses one signature file and returns the app id and its
// (uncompiled) signatures.
func Load(path string) (string, []*ScreenSignature, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided signature file
	if err != nil {
		return "", nil, err
	}
	var sf signatureFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	if sf.App == "" {
		return "", nil, fmt.Errorf("%s: missing app id", path)
	}

	sigs := make([]*ScreenSignature, 0, len(sf.Signatures))
	for i, spec := range sf.Signatures {
		if spec.Screen == "" {
			return "", nil, fmt.Errorf("%s: signature %d: missing screen id", path, i)
		}
		sigs = append(sigs, &ScreenSignature{
			AppID:          sf.App,
			ScreenID:       spec.Screen,
			Description:    spec.Description,
			Priority:       spec.Priority,
			SafeState:      spec.SafeState,
			Required:       spec.Required,
			Forbidden:      spec.Forbidden,
			Unique:         spec.Unique,
			Optional:       spec.Optional,
			RecoveryAction: spec.RecoveryAction,
		})
	}
	return sf.App, sigs, nil
}

// LoadDir loads every .yaml/.yml signature file in a directory into the
// store. Files for the same app are combined before registration so the
// store still sees whole-collection replaces.
func LoadDir(dir string, store *Store) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	byApp := make(map[string][]*ScreenSignature)
	var apps []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		app, sigs, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if _, seen := byApp[app]; !seen {
			apps = append(apps, app)
		}
		byApp[app] = append(byApp[app], sigs...)
	}

	for _, app := range apps {
		if err := store.Register(app, byApp[app]); err != nil {
			return err
		}
	}
	return nil
}
