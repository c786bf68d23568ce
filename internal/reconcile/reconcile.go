// Package reconcile maps player names spelled the way the transfer-value
// site spells them onto the fbref spelling used everywhere else.
//
// Matching is exact. The alias table is a closed, hand-maintained list;
// Suggest exists only to help an operator grow that list.
package reconcile

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Reconciler canonicalizes secondary-source names.
type Reconciler struct {
	aliases map[string]string
}

// New builds a reconciler from the built-in table plus extra entries; extra
// entries override built-ins.
func New(extra map[string]string) *Reconciler {
	aliases := make(map[string]string, len(builtinAliases)+len(extra))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		aliases[k] = v
	}
	return &Reconciler{aliases: aliases}
}

// Canonicalize returns the canonical spelling of name, or name unchanged when
// it has no alias.
func (r *Reconciler) Canonicalize(name string) string {
	if canon, ok := r.aliases[name]; ok {
		return canon
	}
	return name
}

func (r *Reconciler) Len() int {
	return len(r.aliases)
}

// LoadAliases reads a YAML file of the form
//
//	aliases:
//	  Bobby Reid: Bobby De Cordova-Reid
//
// Names may contain dots, so keys are not split on them.
func LoadAliases(path string) (map[string]string, error) {
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "load aliases %s", path)
	}
	if !k.Exists("aliases") {
		return map[string]string{}, nil
	}
	return k.StringMap("aliases"), nil
}

// Suggestion pairs an unmatched name with its closest canonical candidate.
type Suggestion struct {
	Name       string
	Candidate  string
	Similarity float64
}

// Suggest returns, for each name, the most similar canonical name by
// Jaro-Winkler similarity when it reaches minSimilarity. Results are sorted by
// descending similarity.
func Suggest(names, canonical []string, minSimilarity float64) []Suggestion {
	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		best := Suggestion{Name: name}
		for _, c := range canonical {
			sim := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(c), false)
			if sim > best.Similarity {
				best.Similarity = sim
				best.Candidate = c
			}
		}
		if best.Candidate != "" && best.Similarity >= minSimilarity {
			out = append(out, best)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out
}
