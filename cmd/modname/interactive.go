package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wasmembed "github.com/wippyai/wasm-embed"
	"github.com/wippyai/wasm-embed/engine"
	"github.com/wippyai/wasm-embed/store"
	"github.com/wippyai/wasm-embed/wasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	absentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateViewing modelState = iota
	stateEditName
	stateShowStatus
)

type sectionInfo struct {
	label string
	size  int
}

type interactiveModel struct {
	err      error
	st       *store.Store
	mod      *store.Module
	filename string
	cacheDir string
	name     string
	status   string
	exports  []string
	sections []sectionInfo
	input    textinput.Model
	size     int
	state    modelState
	hasName  bool
}

func newInteractiveModel(filename, cacheDir string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		cacheDir: cacheDir,
		state:    stateViewing,
	}
}

type loadedMsg struct {
	err      error
	st       *store.Store
	mod      *store.Module
	name     string
	exports  []string
	sections []sectionInfo
	size     int
	hasName  bool
}

type savedMsg struct {
	err  error
	path string
	size int
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadModule
}

func (m *interactiveModel) loadModule() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	scanned, err := wasm.ScanSections(data)
	if err != nil {
		return loadedMsg{err: err}
	}
	var sections []sectionInfo
	for _, sec := range scanned {
		label := wasm.SectionName(sec.ID)
		if sec.ID == wasm.SectionCustom {
			label = fmt.Sprintf("custom %q", sec.Name)
		}
		sections = append(sections, sectionInfo{label: label, size: sec.End - sec.Start})
	}

	st := m.st
	if st == nil {
		eng, err := engine.NewWithConfig(ctx, &engine.Config{CacheDir: m.cacheDir})
		if err != nil {
			return loadedMsg{err: err}
		}
		st = store.NewWithEngine(eng)
	}
	if m.mod != nil {
		m.mod.Close(ctx)
	}

	mod, err := st.Compile(ctx, data)
	if err != nil {
		return loadedMsg{err: err, st: st}
	}

	name := mod.Name()
	return loadedMsg{
		st:       st,
		mod:      mod,
		name:     name.String(),
		hasName:  !name.IsNil(),
		exports:  mod.ExportedFunctions(),
		sections: sections,
		size:     len(data),
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()
		case "q":
			if m.state != stateEditName {
				return m, m.quit()
			}

		case "r":
			if m.state == stateViewing && m.mod != nil {
				m.prepareInput()
				m.state = stateEditName
				return m, textinput.Blink
			}

		case "s":
			if m.state == stateViewing && m.mod != nil {
				return m, m.applyStrip
			}

		case "enter":
			switch m.state {
			case stateEditName:
				return m, m.applyRename
			case stateShowStatus:
				m.state = stateViewing
				m.status = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateEditName:
				m.state = stateViewing
			case stateShowStatus:
				m.state = stateViewing
				m.status = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.st != nil {
			m.st = msg.st
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mod = msg.mod
		m.name = msg.name
		m.hasName = msg.hasName
		m.exports = msg.exports
		m.sections = msg.sections
		m.size = msg.size
		m.err = nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateShowStatus
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s (%d bytes)", msg.path, msg.size)
		m.state = stateShowStatus
		// Reload so the view reflects what is on disk.
		return m, m.loadModule
	}

	if m.state == stateEditName {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) quit() tea.Cmd {
	ctx := context.Background()
	if m.mod != nil {
		m.mod.Close(ctx)
	}
	if m.st != nil {
		m.st.Close(ctx)
	}
	return tea.Quit
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "new module name"
	ti.Prompt = "name: "
	ti.Width = 40
	if m.hasName {
		ti.SetValue(m.name)
	}
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) applyRename() tea.Msg {
	newName := m.input.Value()
	if !m.mod.SetName(wasmembed.NewByteVecString(newName)) {
		return savedMsg{err: fmt.Errorf("rename refused (module shared or handle closed)")}
	}
	out, err := m.mod.Bytes()
	if err != nil {
		return savedMsg{err: err}
	}
	if err := os.WriteFile(m.filename, out, 0o644); err != nil {
		return savedMsg{err: err}
	}
	return savedMsg{path: m.filename, size: len(out)}
}

func (m *interactiveModel) applyStrip() tea.Msg {
	out, err := m.mod.Bytes()
	if err != nil {
		return savedMsg{err: err}
	}
	stripped, err := wasm.StripModuleName(out)
	if err != nil {
		return savedMsg{err: err}
	}
	if err := os.WriteFile(m.filename, stripped, 0o644); err != nil {
		return savedMsg{err: err}
	}
	return savedMsg{path: m.filename, size: len(stripped)}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowStatus {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.mod == nil {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Module Name Editor"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  (%d bytes)", m.size))
	b.WriteString("\n\n")

	if m.hasName {
		b.WriteString("Name: " + nameStyle.Render(fmt.Sprintf("%q", m.name)))
	} else {
		b.WriteString("Name: " + absentStyle.Render("(none)"))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Exports (%d):", len(m.exports)))
	for _, e := range m.exports {
		b.WriteString(" " + nameStyle.Render(e))
	}
	b.WriteString("\n\nSections:\n")
	for _, sec := range m.sections {
		b.WriteString(fmt.Sprintf("  %s %d bytes\n", sectionStyle.Render(fmt.Sprintf("%-24s", sec.label)), sec.size))
	}
	b.WriteString("\n")

	switch m.state {
	case stateViewing:
		b.WriteString(helpStyle.Render("r rename • s strip name • q quit"))

	case stateEditName:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))

	case stateShowStatus:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(filename, cacheDir string) error {
	p := tea.NewProgram(newInteractiveModel(filename, cacheDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
