// Package skills gates capability disclosure by content size instead of
// stage: the model sees a catalog of named skills and must explicitly load
// one before its instructions and capability bundle become available.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"
)

// Skill is one catalog entry. Content is disclosed only after a load
// request.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
}

// Catalog holds the skill files from one directory and hot-reloads them on
// change. When the watcher cannot start, the catalog stays static.
type Catalog struct {
	dir string

	mu     sync.RWMutex
	skills map[string]Skill

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// LoadCatalog reads every .yaml skill file in dir and starts watching for
// changes.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{
		dir:    dir,
		skills: make(map[string]Skill),
		done:   make(chan struct{}),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return c, nil
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return c, nil
	}
	c.watcher = watcher
	go c.watch()

	return c, nil
}

// Reload re-reads the skill directory. Files that fail to parse are skipped;
// a missing directory is an error.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read skills dir: %w", err)
	}

	skills := make(map[string]Skill)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			continue
		}
		var s Skill
		if err := yaml.Unmarshal(data, &s); err != nil || s.Name == "" {
			continue
		}
		skills[s.Name] = s
	}

	c.mu.Lock()
	c.skills = skills
	c.mu.Unlock()
	return nil
}

func (c *Catalog) watch() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.Reload()
			}
		case <-c.watcher.Errors:
			// Keep watching.
		}
	}
}

// Get looks up a skill by name.
func (c *Catalog) Get(name string) (Skill, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.skills[name]
	return s, ok
}

// List returns all skills sorted by name.
func (c *Catalog) List() []Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary renders the catalog as one line per skill, for instruction text.
func (c *Catalog) Summary() string {
	var b strings.Builder
	for _, s := range c.List() {
		fmt.Fprintf(&b, "- %s: %s\n", s.Name, s.Description)
	}
	return b.String()
}

// Close stops the watcher.
func (c *Catalog) Close() {
	close(c.done)
	if c.watcher != nil {
		c.watcher.Close()
	}
}
