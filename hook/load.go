package hook

import (
	"path/filepath"
	"strings"

	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/filesystem"
)

// Load loads every hook script in dir, in lexical order, into a Chain.
// A directory without scripts yields Nop.
func Load(dir string) (Hooks, []*Script, error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var scripts []*Script
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constant.HookExtension) {
			continue
		}

		script, err := LoadScript(filepath.Join(dir, entry.Name()))
		if err != nil {
			for _, loaded := range scripts {
				loaded.Close()
			}
			return nil, nil, err
		}
		scripts = append(scripts, script)
	}

	if len(scripts) == 0 {
		return Nop{}, nil, nil
	}

	chain := make(Chain, len(scripts))
	for i, s := range scripts {
		chain[i] = s
	}
	return chain, scripts, nil
}
