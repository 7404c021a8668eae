package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where an API key may come from. Lookup order is File,
// Value, then the FileEnv and Env environment variables.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value.
	File string
	// FileEnv names an environment variable holding a path to the secret.
	FileEnv string
	// Env names an environment variable holding the secret itself.
	Env string
}

// Load returns the trimmed secret from the first configured location. An
// error is returned when no location yields a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		return fromFile(name, file)
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if src.FileEnv != "" {
		if file := strings.TrimSpace(os.Getenv(src.FileEnv)); file != "" {
			return fromFile(name, file)
		}
	}

	if src.Env != "" {
		if secret := strings.TrimSpace(os.Getenv(src.Env)); secret != "" {
			return secret, nil
		}
	}

	return "", fmt.Errorf("%s is not configured%s", name, hint(src))
}

func fromFile(name, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}
	return secret, nil
}

func hint(src Source) string {
	vars := make([]string, 0, 2)
	for _, v := range []string{src.Env, src.FileEnv} {
		if v != "" {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return ""
	}
	return " (set " + strings.Join(vars, " or ") + ")"
}
