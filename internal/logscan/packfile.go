package logscan

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// PackVariant is one [[variants]] entry in a pattern pack file.
type PackVariant struct {
	Tool        string   `toml:"tool"`
	Aliases     []string `toml:"aliases"`
	HitPattern  string   `toml:"hit_pattern"`
	StepPattern string   `toml:"step_pattern"`
}

type packRoot struct {
	Variants []PackVariant `toml:"variants"`
}

// LoadPackFile overlays pattern pairs from a TOML file onto the builtin
// table. An entry replaces whatever is registered under the same tool name,
// so a pack can both add new tool families and retune the builtin ones.
func (s *Scanner) LoadPackFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pattern pack: %w", err)
	}

	var root packRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse pattern pack TOML: %w", err)
	}

	for _, pv := range root.Variants {
		if pv.Tool == "" {
			return fmt.Errorf("pattern pack entry is missing tool name")
		}
		hitRe, err := regexp.Compile(pv.HitPattern)
		if err != nil {
			return fmt.Errorf("bad hit pattern for tool %s: %w", pv.Tool, err)
		}
		stepRe, err := regexp.Compile(pv.StepPattern)
		if err != nil {
			return fmt.Errorf("bad step pattern for tool %s: %w", pv.Tool, err)
		}

		v := &variant{name: strings.ToLower(pv.Tool), hitRe: hitRe, stepRe: stepRe}
		s.register(v, append([]string{pv.Tool}, pv.Aliases...)...)
	}
	return nil
}
