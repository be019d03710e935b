package merge

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultSourceOrder is the compiled-in provider evaluation order. Earlier
// providers win merge ties.
var DefaultSourceOrder = []string{"exa", "perplexity", "apollo", "enrichlayer"}

type sourcesFile struct {
	Sources []string `yaml:"sources"`
}

// LoadSourceOrder reads a provider evaluation order from a yaml file of the
// form `sources: [exa, apollo, ...]`. An empty path returns the default.
func LoadSourceOrder(path string) ([]string, error) {
	if path == "" {
		return DefaultSourceOrder, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: read sources file %s", path)
	}

	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "merge: parse sources file")
	}
	if len(f.Sources) == 0 {
		return nil, eris.Errorf("merge: sources file %s lists no sources", path)
	}

	return f.Sources, nil
}
