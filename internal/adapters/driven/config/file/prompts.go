package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptExt = ".txt"

// PromptStore loads per-domain system prompts from user-editable files.
// The prompt for a domain lives at <dir>/<domain>.txt. A missing file
// yields an empty prompt, which answers without a system message.
//
// Directory creation is lazy: nothing touches the disk until the first
// Load or Watch.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.deskagent/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, DefaultDirName, domain.DefaultPromptsDirectory)
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt for the given name, reading it from disk on
// first access and from the cache afterwards.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads the cache whenever a prompt file in the directory is
// written, created, renamed or removed. It returns once the watcher is
// registered; watching stops when ctx is cancelled.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := w.Add(s.promptDir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(event.Name), promptExt) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("prompt %s changed, reloading", filepath.Base(event.Name))
				s.Reload()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()

	return nil
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+promptExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	var files strings.Builder
	for _, d := range domain.AllDomains() {
		fmt.Fprintf(&files, "- `%s%s` - %s\n", d, promptExt, d.Description())
	}

	content := "# deskagent prompts\n\n" +
		"Each file holds the system prompt used when answering questions for one\n" +
		"knowledge domain. A missing or empty file means no system prompt.\n\n" +
		"## Files\n\n" + files.String() +
		"\nEdits are picked up without restarting the chat session.\n"
	return os.WriteFile(path, []byte(content), 0600)
}
