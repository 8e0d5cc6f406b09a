// Package menu provides the agent selection menu for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Key   string
	Label string

	// Domain is set for agent entries.
	Domain domain.Domain
	View   messages.ViewType
	Quit   bool
}

// View represents the agent menu.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view listing every agent.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	items := make([]Item, 0, len(domain.AllDomains())+2)
	for _, d := range domain.AllDomains() {
		items = append(items, Item{Key: d.MenuKey(), Label: d.Description(), Domain: d})
	}
	items = append(items,
		Item{Key: "?", Label: "Help", View: messages.ViewHelp},
		Item{Key: "0", Label: "Exit", Quit: true},
	)

	return &View{
		styles: s,
		keymap: km,
		items:  items,
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil
		case keymap.Matches(keyStr, v.keymap.Select):
			return v, v.choose(v.items[v.selected])
		case keymap.Matches(keyStr, v.keymap.Quit):
			return v, tea.Quit
		}

		for i, item := range v.items {
			if item.Key == keyStr {
				v.selected = i
				return v, v.choose(item)
			}
		}
	}

	return v, nil
}

func (v *View) choose(item Item) tea.Cmd {
	switch {
	case item.Quit:
		return tea.Quit
	case item.Domain != "":
		d := item.Domain
		return func() tea.Msg {
			return messages.AgentSelected{Domain: d}
		}
	default:
		view := item.View
		return func() tea.Msg {
			return messages.ViewChanged{View: view}
		}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("deskagent"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Select an agent:"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Subtitle
		}
		b.WriteString(cursor + style.Render(item.Key+" - "+item.Label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter/1-3] Select  [0/q] Exit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
