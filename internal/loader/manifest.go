package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/phpns/pkg/core"
)

// manifest is the part of composer.json the loader cares about.
// Sections stay raw so one malformed entry cannot sink the whole file.
type manifest struct {
	Autoload    autoloadSection `json:"autoload"`
	AutoloadDev autoloadSection `json:"autoload-dev"`
}

// autoloadSection holds the raw dialect maps of one autoload block.
type autoloadSection struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the section raw.
func (a *autoloadSection) UnmarshalJSON(b []byte) error {
	a.raw = append(a.raw[:0], b...)
	return nil
}

func (a autoloadSection) present() bool {
	trimmed := bytes.TrimSpace(a.raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// entry is one (namespace, directory) pair, or a note about why an
// entry was dropped.
type entry struct {
	dialect   string
	namespace string
	dir       string
	skipped   string
}

// entries flattens the section into pairs. Dialects are read in
// core.Dialects order and namespaces in lexical order, so two reads of an
// unchanged manifest yield the same sequence.
func (a autoloadSection) entries() []entry {
	// Composer writes an empty autoload as [], which is not an object.
	var dialects map[string]json.RawMessage
	if err := json.Unmarshal(a.raw, &dialects); err != nil {
		return nil
	}

	var out []entry
	for _, dialect := range core.Dialects {
		raw, ok := dialects[dialect]
		if !ok {
			continue
		}
		var mapping map[string]json.RawMessage
		if err := json.Unmarshal(raw, &mapping); err != nil {
			out = append(out, entry{skipped: fmt.Sprintf("%s: not an object", dialect)})
			continue
		}

		namespaces := make([]string, 0, len(mapping))
		for ns := range mapping {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)

		for _, ns := range namespaces {
			if ns == "" {
				out = append(out, entry{skipped: fmt.Sprintf("%s: empty namespace", dialect)})
				continue
			}
			dirs, err := decodeDirs(mapping[ns])
			if err != nil {
				out = append(out, entry{skipped: fmt.Sprintf("%s %q: %v", dialect, ns, err)})
				continue
			}
			for _, dir := range dirs {
				out = append(out, entry{dialect: dialect, namespace: ns, dir: dir})
			}
		}
	}
	return out
}

// decodeDirs accepts a single directory string or a list of them.
// null decodes into a string without error, so it is rejected up front;
// it would otherwise become the empty prefix and map the whole root.
func decodeDirs(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, errors.New("want a path or a list of paths")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.New("want a path or a list of paths")
	}
	dirs := make([]string, 0, len(list))
	for _, item := range list {
		var dir string
		if isNull(item) || json.Unmarshal(item, &dir) != nil {
			return nil, errors.New("list contains a non-string path")
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseManifest decodes composer.json. Only the top level must be valid
// JSON object syntax; autoload sections are inspected lazily.
func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &m, nil
}
