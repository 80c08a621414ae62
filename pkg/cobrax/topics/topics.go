// Package topics adds topic based help to a cobra command tree. Topics are
// markdown or text documents read from an fs.FS, usually an embedded one,
// and shown by `<app> help <topic>`.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Manager holds the topics of one command tree
type Manager struct {
	source       fs.FS
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic is one help document
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options configures the Manager
type Options struct {
	// Extensions is the list of file extensions to consider as topics.
	// Defaults to .txt and .md.
	Extensions []string

	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

// New creates a Manager over source with default options
func New(source fs.FS) *Manager {
	return NewWithOptions(source, Options{})
}

// NewWithOptions creates a Manager over source
func NewWithOptions(source fs.FS, opts Options) *Manager {
	m := &Manager{
		source:     source,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	return m
}

// Scan loads every topic file below the root of source. Subdirectories are
// flattened: advanced/plugins.md becomes the topic "plugins".
func (m *Manager) Scan() error {
	if m.source == nil {
		return nil
	}

	return fs.WalkDir(m.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}

		content, err := fs.ReadFile(m.source, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(content)}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, valid := range m.extensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// Get looks a topic up by name. Flag style names (--dotfiles) also match
// topics stored as option-<name>.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics["option-"+name]
	return topic, ok
}

// List returns the topic names, sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render returns the topic formatted by the manager's renderer
func (m *Manager) Render(topic *Topic) string {
	return m.renderer.Render(topic.Content, path.Ext(topic.Path))
}

// WriteList prints the topic index
func (m *Manager) WriteList(w io.Writer, app string) {
	names := m.List()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var options, general []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}

// Initialize installs topic help on rootCmd with default options
func Initialize(rootCmd *cobra.Command, source fs.FS) (*Manager, error) {
	return InitializeWithOptions(rootCmd, source, Options{})
}

// InitializeWithOptions scans source and replaces the help command of
// rootCmd with one that also knows about topics
func InitializeWithOptions(rootCmd *cobra.Command, source fs.FS, opts Options) (*Manager, error) {
	m := NewWithOptions(source, opts)
	if err := m.Scan(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	m.originalHelp = rootCmd.HelpFunc()
	app := rootCmd.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + app + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + app + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}
			if args[0] == "topics" {
				m.WriteList(out, app)
				return
			}
			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(out, m.Render(topic))
				return
			}

			target, _, err := rootCmd.Find(args)
			if err != nil || target == nil {
				m.originalHelp(rootCmd, args)
				return
			}
			m.originalHelp(target, args)
		},
	}

	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" {
			rootCmd.RemoveCommand(c)
			break
		}
	}
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(helpCmd)

	return m, nil
}
