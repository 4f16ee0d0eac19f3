package rule

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is a table of rules keyed by ID. Registration happens at
// startup; a duplicate or malformed rule is a programming error and panics.
type Registry struct {
	rules []Rule
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a rule, rejecting empty IDs, missing patterns or visitors,
// and duplicate IDs.
func (reg *Registry) Register(r Rule) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		panic("rule: empty rule ID")
	}
	if r.FilePattern == nil || r.Visit == nil {
		panic(fmt.Sprintf("rule %s: file pattern and visitor are required", id))
	}
	if _, dup := reg.index[id]; dup {
		panic(fmt.Sprintf("rule %s: duplicate registration", id))
	}
	reg.rules = append(reg.rules, r)
	reg.index[id] = len(reg.rules) - 1
}

// All returns the registered rules sorted by ID.
func (reg *Registry) All() []Rule {
	out := make([]Rule, len(reg.rules))
	copy(out, reg.rules)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a rule by ID.
func (reg *Registry) Get(id string) (Rule, bool) {
	idx, ok := reg.index[id]
	if !ok {
		return Rule{}, false
	}
	return reg.rules[idx], true
}
