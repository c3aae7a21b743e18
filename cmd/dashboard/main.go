package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wadjakorntonsri/go-link-bio/pkg/client"
	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// Terminal dashboard for managing a profile's links. Reordering works
// like the web dashboard's drag-and-drop: grab a row, move it, drop it.
// The new order shows immediately and is committed in the background;
// a rejected commit snaps the list back to the server's order.

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	grabbedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type linksLoadedMsg struct {
	links []domain.Link
	err   error
}

type reorderDoneMsg struct {
	links []domain.Link
	err   error
}

type deleteDoneMsg struct {
	err error
}

type createDoneMsg struct {
	link *domain.Link
	err  error
}

type model struct {
	api   *client.Client
	coord *client.Coordinator

	mode     mode
	cursor   int
	loading  bool
	creating bool
	errLine  string
	status   string

	titleInput textinput.Model
	urlInput   textinput.Model
}

func newModel(api *client.Client) model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 50

	ui := textinput.New()
	ui.Placeholder = "https://..."

	return model{
		api:        api,
		coord:      client.NewCoordinator(nil),
		loading:    true,
		titleInput: ti,
		urlInput:   ui,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadLinks()
}

func (m model) loadLinks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		links, err := m.api.Links(ctx)
		return linksLoadedMsg{links: links, err: err}
	}
}

func (m model) commitReorder(order []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		links, err := m.api.Reorder(ctx, order)
		return reorderDoneMsg{links: links, err: err}
	}
}

func (m model) commitDelete(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := m.api.DeleteLink(ctx, id)
		return deleteDoneMsg{err: err}
	}
}

func (m model) commitCreate(title, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		link, err := m.api.CreateLink(ctx, title, url)
		return createDoneMsg{link: link, err: err}
	}
}

func errorLine(err error) string {
	if errors.Is(err, client.ErrUnreachable) {
		return client.UnreachableMessage
	}
	return err.Error()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case linksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errLine = errorLine(msg.err)
			return m, nil
		}
		m.errLine = ""
		m.coord.Reset(msg.links)
		if m.cursor >= len(msg.links) {
			m.cursor = max(0, len(msg.links)-1)
		}
		return m, nil

	case reorderDoneMsg:
		m.coord.FinishReorder(msg.links, msg.err)
		m.status = ""
		if msg.err != nil {
			m.errLine = errorLine(msg.err)
			// cursor may point at a row that snapped back; clamp only
			if m.cursor >= len(m.coord.Links()) {
				m.cursor = max(0, len(m.coord.Links())-1)
			}
		} else {
			m.errLine = ""
		}
		return m, nil

	case deleteDoneMsg:
		m.coord.FinishDelete(msg.err)
		m.status = ""
		if msg.err != nil {
			m.errLine = errorLine(msg.err)
		} else {
			m.errLine = ""
			if m.cursor >= len(m.coord.Links()) {
				m.cursor = max(0, len(m.coord.Links())-1)
			}
		}
		return m, nil

	case createDoneMsg:
		m.creating = false
		m.status = ""
		if msg.err != nil {
			m.errLine = errorLine(msg.err)
			return m, nil
		}
		m.errLine = ""
		// Reload to adopt the server's view of the list. Safe to reset
		// the coordinator on arrival: every mutating gesture is blocked
		// while the create is outstanding, so nothing is in flight.
		m.loading = true
		return m, m.loadLinks()

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	links := m.coord.Links()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		if !m.coord.Busy() && !m.creating {
			m.loading = true
			return m, m.loadLinks()
		}

	case "up", "k":
		if m.coord.Phase() == client.PhaseDragging {
			if m.cursor > 0 {
				if err := m.coord.DragTo(m.cursor - 1); err == nil {
					m.cursor--
				}
			}
		} else if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.coord.Phase() == client.PhaseDragging {
			if m.cursor < len(links)-1 {
				if err := m.coord.DragTo(m.cursor + 1); err == nil {
					m.cursor++
				}
			}
		} else if m.cursor < len(links)-1 {
			m.cursor++
		}

	case " ", "enter":
		if m.coord.Phase() == client.PhaseDragging {
			order, dirty := m.coord.Drop()
			if dirty {
				m.status = "Saving order..."
				return m, m.commitReorder(order)
			}
		} else if len(links) > 0 && !m.creating {
			if err := m.coord.BeginDrag(m.cursor); err != nil {
				m.errLine = err.Error()
			} else {
				m.errLine = ""
			}
		}

	case "esc":
		m.coord.CancelDrag()
		m.cursor = clampCursor(m.cursor, len(m.coord.Links()))

	case "d":
		if len(links) > 0 && m.coord.Phase() == client.PhaseIdle && !m.creating {
			id := links[m.cursor].ID
			if err := m.coord.BeginDelete(id); err != nil {
				m.errLine = err.Error()
			} else {
				m.errLine = ""
				m.status = "Deleting..."
				return m, m.commitDelete(id)
			}
		}

	case "a":
		if !m.coord.Busy() && m.coord.Phase() == client.PhaseIdle && !m.creating {
			m.mode = modeAdd
			m.titleInput.SetValue("")
			m.urlInput.SetValue("")
			m.titleInput.Focus()
			m.urlInput.Blur()
		}
	}

	return m, nil
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil

	case "tab", "shift+tab":
		if m.titleInput.Focused() {
			m.titleInput.Blur()
			m.urlInput.Focus()
		} else {
			m.urlInput.Blur()
			m.titleInput.Focus()
		}
		return m, nil

	case "enter":
		m.mode = modeList
		m.creating = true
		m.status = "Adding link..."
		return m, m.commitCreate(m.titleInput.Value(), m.urlInput.Value())
	}

	var cmd tea.Cmd
	if m.titleInput.Focused() {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	s := titleStyle.Render("Your links") + "\n\n"

	if m.loading {
		return s + statusStyle.Render("Loading...") + "\n"
	}

	if m.mode == modeAdd {
		form := m.titleInput.View() + "\n" + m.urlInput.View()
		s += inputBoxStyle.Render(form) + "\n"
		s += helpStyle.Render("tab: switch field • enter: save • esc: cancel") + "\n"
		return s
	}

	links := m.coord.Links()
	if len(links) == 0 {
		s += statusStyle.Render("No links yet. Press 'a' to add one.") + "\n"
	}

	dragging := m.coord.Phase() == client.PhaseDragging
	for i, l := range links {
		cursor := "  "
		line := fmt.Sprintf("%s  %s", l.Title, urlStyle.Render(l.URL))
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			if dragging {
				line = grabbedStyle.Render(l.Title) + "  " + urlStyle.Render(l.URL)
			}
		}
		s += cursor + line + "\n"
	}

	s += "\n"
	if m.errLine != "" {
		s += errStyle.Render(m.errLine) + "\n"
	}
	if m.status != "" {
		s += statusStyle.Render(m.status) + "\n"
	}

	if dragging {
		s += helpStyle.Render("j/k: move • space: drop • esc: cancel")
	} else {
		s += helpStyle.Render("j/k: navigate • space: grab • d: delete • a: add • r: reload • q: quit")
	}
	return s + "\n"
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		return max(0, n-1)
	}
	return cursor
}

func main() {
	cfg := config.Load()

	token := os.Getenv("AUTH_TOKEN")
	if token == "" {
		fmt.Println("AUTH_TOKEN is required (copy the auth_token cookie after signing in)")
		os.Exit(1)
	}

	api := client.New(cfg.BaseURL, token)

	p := tea.NewProgram(newModel(api))
	if _, err := p.Run(); err != nil {
		log.Fatalf("Dashboard error: %v", err)
	}
}
