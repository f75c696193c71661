// Package topics adds a topic-based help system to a cobra CLI: help
// pages are loaded from a file system (usually embedded) and served
// through "help <topic>" next to the regular command help.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help page.
type Topic struct {
	Name    string
	Format  string // file extension; ".md" enables markdown rendering
	Content string
}

// Manager holds the loaded topics and the original help function it
// wraps.
type Manager struct {
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	renderer     Renderer
}

// New loads every .md and .txt file in fsys as a topic named after the
// file without its extension.
func New(fsys fs.FS, renderer Renderer) (*Manager, error) {
	if renderer == nil {
		renderer = &PlainRenderer{}
	}
	m := &Manager{topics: make(map[string]*Topic), renderer: renderer}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Format: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}

	return m, nil
}

// Get retrieves a topic by name. Leading dashes are stripped so
// "--local" finds a "local" topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	topic, ok := m.topics[name]
	return topic, ok
}

// Names returns all topic names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) render(topic *Topic) string {
	return m.renderer.Render(topic.Content, topic.Format)
}

// Initialize wires the topic system into rootCmd: a help command that
// also accepts topic names, and a matching --help override.
func Initialize(rootCmd *cobra.Command, fsys fs.FS, renderer Renderer) error {
	m, err := New(fsys, renderer)
	if err != nil {
		return err
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				names := m.Names()
				if len(names) == 0 {
					cmd.Println("No help topics available.")
					return
				}
				cmd.Println("Available help topics:")
				for _, name := range names {
					cmd.Printf("  %s\n", name)
				}
				cmd.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}

			if topic, ok := m.Get(args[0]); ok {
				cmd.Print(m.render(topic))
				return
			}

			m.originalHelp(rootCmd, args)
		},
	}

	// Replace any previously registered help command.
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	// Also serve topics through the --help path.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Get(args[0]); ok {
				cmd.Print(m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}
