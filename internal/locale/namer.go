// Package locale names track locale codes for display.
package locale

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Namer resolves locale codes to display names using CLDR data.
type Namer struct {
	mu     sync.RWMutex
	namers map[string]display.Namer
}

// NewNamer creates a Namer
func NewNamer() *Namer {
	return &Namer{namers: make(map[string]display.Namer)}
}

// DisplayName returns the name of the language identified by code, written
// in uiLocale. ok is false when either code is not a known language or no
// name exists for it.
func (n *Namer) DisplayName(code, uiLocale string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return "", false
	}

	namer, ok := n.namerFor(uiLocale)
	if !ok {
		return "", false
	}

	name := namer.Name(tag)
	if name == "" {
		return "", false
	}
	return name, true
}

func (n *Namer) namerFor(uiLocale string) (display.Namer, bool) {
	key := strings.ToLower(uiLocale)
	if key == "" {
		key = "en"
	}

	n.mu.RLock()
	namer, ok := n.namers[key]
	n.mu.RUnlock()
	if ok {
		return namer, true
	}

	ui, err := language.Parse(key)
	if err != nil {
		return nil, false
	}
	namer = display.Tags(ui)
	if namer == nil {
		return nil, false
	}

	n.mu.Lock()
	n.namers[key] = namer
	n.mu.Unlock()
	return namer, true
}
