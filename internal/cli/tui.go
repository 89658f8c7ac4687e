package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jruhland/assetscope/pkg/explorer"
	"github.com/jruhland/assetscope/pkg/layout"
)

// layoutMsg carries an asynchronous layout result into the update loop.
type layoutMsg explorer.LayoutResult

// tickMsg drives the loading spinner and viewport animations.
type tickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// explorerModel is the bubbletea model wrapping one explorer view. All
// explorer mutation happens inside Update, which is the single-threaded
// interaction loop the explorer requires.
type explorerModel struct {
	exp *explorer.Explorer
	ctx context.Context

	width  int
	height int
	frame  int
	status string
}

func newExplorerModel(ctx context.Context, e *explorer.Explorer) explorerModel {
	return explorerModel{exp: e, ctx: ctx}
}

func (m explorerModel) Init() tea.Cmd {
	m.exp.Relayout(m.ctx)
	return tea.Batch(waitLayout(m.exp), tick())
}

func waitLayout(e *explorer.Explorer) tea.Cmd {
	return func() tea.Msg {
		return layoutMsg(<-e.Layouts())
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.exp.Viewport().SetSize(float64(msg.Width), float64(msg.Height))
		return m, nil

	case layoutMsg:
		action, applied := m.exp.ApplyLayout(explorer.LayoutResult(msg))
		if applied {
			m.status = fmt.Sprintf("layout applied (%s)", syncActionName(action))
		}
		return m, waitLayout(m.exp)

	case tickMsg:
		m.frame++
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m explorerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := m.exp.Viewport()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up":
		m.exp.MoveFocus(explorer.NavUp)
	case "down":
		m.exp.MoveFocus(explorer.NavDown)
	case "left":
		m.exp.MoveFocus(explorer.NavLeft)
	case "right":
		m.exp.MoveFocus(explorer.NavRight)

	case "h":
		vp.Pan(80, 0)
	case "l":
		vp.Pan(-80, 0)
	case "k":
		vp.Pan(0, 60)
	case "j":
		vp.Pan(0, -60)

	case "+", "=":
		vp.SetScale(vp.Scale() * 1.25)
	case "-":
		vp.SetScale(vp.Scale() / 1.25)
	case "0":
		if l := m.exp.Layout(); l != nil {
			vp.Autocenter(l.Width, l.Height, true)
		}

	case "enter":
		m.toggleFocusedGroup()
	case "E":
		m.exp.ToggleAllGroups(m.ctx, func(string) bool { return true })
		m.status = "expanded all groups"
	case "C":
		m.exp.ToggleAllGroups(m.ctx, func(string) bool { return false })
		m.status = "collapsed all groups"
	case "x":
		m.exp.ClickBackground()
		m.status = ""
	}
	return m, nil
}

// toggleFocusedGroup expands or collapses the group owning the focused
// asset, or the first visible group when nothing is focused.
func (m *explorerModel) toggleFocusedGroup() {
	groupID := ""
	if focus := m.exp.Selection().Focus(); focus != "" {
		groupID = m.exp.Graph().GroupOf(focus)
	} else if groups := m.exp.VisibleGroups(); len(groups) > 0 {
		groupID = groups[0].ID
	}
	if groupID == "" {
		return
	}
	m.exp.ClickGroup(m.ctx, groupID, explorer.Modifiers{})
	m.status = "toggled " + groupID
}

func (m explorerModel) View() string {
	var b strings.Builder

	vp := m.exp.Viewport()
	b.WriteString(StyleTitle.Render("assetscope"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  scale %.2f · %s", vp.Scale(), tierName(vp.Tier()))))
	if m.exp.Loading() {
		b.WriteString("  " + styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)]))
	}
	b.WriteString("\n\n")

	switch {
	case m.exp.Err() != nil:
		b.WriteString(StyleWarning.Render("graph error: " + m.exp.Err().Error()))
	case m.exp.Layout() == nil:
		b.WriteString(StyleDim.Render("computing layout..."))
	default:
		m.renderCanvas(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("arrows focus · enter expand/collapse · E/C all · hjkl pan · +/- zoom · 0 fit · x clear · q quit"))
	if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status))
	}
	return b.String()
}

// renderCanvas lists what the viewport currently shows, with fidelity
// following the detail tier.
func (m explorerModel) renderCanvas(b *strings.Builder) {
	tier := m.exp.Viewport().Tier()
	if tier == explorer.TierHidden {
		b.WriteString(StyleDim.Render("zoomed out beyond the render cutoff - press + or 0"))
		return
	}

	for _, gb := range m.exp.VisibleGroups() {
		marker := "▸"
		if gb.Expanded {
			marker = "▾"
		}
		b.WriteString(styleGroup.Render(fmt.Sprintf("%s %s", marker, gb.ID)))
		b.WriteString("\n")
		if tier == explorer.TierGroupsOnly || !gb.Expanded {
			continue
		}
		for _, nb := range m.exp.VisibleNodes() {
			if m.exp.Graph().GroupOf(nb.Token) != gb.ID {
				continue
			}
			b.WriteString(m.renderNode(nb, tier))
		}
	}

	for _, nb := range m.exp.VisibleNodes() {
		if nb.External {
			b.WriteString(styleExternal.Render("  ⇢ " + nb.Token))
			b.WriteString("\n")
		}
	}
}

func (m explorerModel) renderNode(nb layout.NodeBox, tier explorer.Tier) string {
	label := "  " + nb.Token
	if tier == explorer.TierFull {
		if n, ok := m.exp.Graph().Node(nb.Token); ok && len(n.Meta) > 0 {
			label += StyleDim.Render(fmt.Sprintf("  (%d meta)", len(n.Meta)))
		}
	}
	if m.exp.Selection().Contains(nb.Token) {
		return styleSelected.Render(label) + "\n"
	}
	return StyleValue.Render(label) + "\n"
}

func tierName(t explorer.Tier) string {
	switch t {
	case explorer.TierFull:
		return "full detail"
	case explorer.TierMinimal:
		return "minimal"
	case explorer.TierGroupsOnly:
		return "groups only"
	default:
		return "hidden"
	}
}

func syncActionName(a explorer.SyncAction) string {
	switch a {
	case explorer.SyncFocusGroup:
		return "focused group"
	case explorer.SyncFocusNode:
		return "focused node"
	case explorer.SyncAutocenter:
		return "autocentered"
	case explorer.SyncUntouched:
		return "kept viewport"
	default:
		return "skipped"
	}
}
