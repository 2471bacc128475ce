// Package term renders the call UI as plain terminal output.
package term

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
)

var noticeIcons = map[core.NoticeLevel]string{
	core.NoticeInfo:    "ℹ️",
	core.NoticeWarning: "⚠️",
	core.NoticeError:   "❌",
	core.NoticeSuccess: "✅",
}

// View writes every render to out. It keeps just enough state to redraw
// the tile grid.
type View struct {
	out    io.Writer
	styles Styles

	mu     sync.Mutex
	tiles  map[domain.UserID]domain.MediaHandle
	layout domain.Layout
}

func New(out io.Writer, styles Styles) *View {
	return &View{
		out:    out,
		styles: styles,
		tiles:  make(map[domain.UserID]domain.MediaHandle),
	}
}

func (v *View) println(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, s)
}

func (v *View) ShowJoinForm() {
	v.println(v.styles.Title.Render("Join a room") + v.styles.Muted.Render("  join <room> [user]"))
}

func (v *View) HideJoinForm() {}

func (v *View) SetLoading(loading bool) {
	if loading {
		v.println(v.styles.Muted.Render("Please wait..."))
	}
}

func (v *View) SetConnectionStatus(state domain.ConnectionState) {
	v.println(v.styles.Status.Render(state.Text()))
}

func (v *View) SetRoomInfo(room domain.RoomID) {
	v.println("Room: " + v.styles.Bold.Render(string(room)))
}

func (v *View) RenderParticipants(local domain.UserID, joined bool, remote []domain.Participant, count int) {
	rows := make([][]string, 0, len(remote)+1)
	if joined {
		rows = append(rows, []string{string(local) + " (You)"})
	}
	for _, p := range remote {
		rows = append(rows, []string{p.Label()})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.styles.Border).
		Headers(fmt.Sprintf("Participants (%d)", count)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return v.styles.Header
			case row%2 == 0:
				return v.styles.Row
			default:
				return v.styles.RowAlt
			}
		})
	v.println(tbl.Render())
}

func (v *View) AttachTile(user domain.UserID, handle domain.MediaHandle) {
	v.mu.Lock()
	v.tiles[user] = handle
	v.mu.Unlock()
}

func (v *View) RemoveTile(user domain.UserID) {
	v.mu.Lock()
	delete(v.tiles, user)
	v.mu.Unlock()
}

func (v *View) ClearTiles() {
	v.mu.Lock()
	v.tiles = make(map[domain.UserID]domain.MediaHandle)
	v.layout = domain.Layout{}
	v.mu.Unlock()
}

func (v *View) ShowPlaceholder(room domain.RoomID) {
	if room == "" {
		room = "demo-room"
	}
	v.println(v.styles.Empty.Render("Waiting for participants...\nShare room ID: " + v.styles.Bold.Render(string(room))))
}

// SetLayout redraws the grid. Tiles beyond the layout capacity are not drawn.
func (v *View) SetLayout(layout domain.Layout) {
	v.mu.Lock()
	v.layout = layout
	grid := v.gridLocked()
	v.mu.Unlock()
	if grid != "" {
		v.println(grid)
	}
}

func (v *View) gridLocked() string {
	if v.layout.Capacity() == 0 {
		return ""
	}
	users := make([]domain.UserID, 0, len(v.tiles))
	for u := range v.tiles {
		users = append(users, u)
	}
	slices.Sort(users)
	if len(users) > v.layout.Capacity() {
		users = users[:v.layout.Capacity()]
	}

	var lines []string
	for start := 0; start < len(users); start += v.layout.Columns {
		end := min(start+v.layout.Columns, len(users))
		cells := make([]string, 0, end-start)
		for _, u := range users[start:end] {
			h := v.tiles[u]
			cells = append(cells, v.styles.Tile.Render(string(u)+"\n"+v.styles.Muted.Render(h.Kind()+" "+h.ID())))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (v *View) SetMicState(on bool) {
	v.println(toggleLine("🎤 Mic", "🔇 Mic", on))
}

func (v *View) SetCameraState(on bool) {
	v.println(toggleLine("📹 Camera", "📷 Camera", on))
}

func (v *View) SetScreenShareState(on bool) {
	if on {
		v.println("🖥  Stop Share")
		return
	}
	v.println("🖥  Screen")
}

func toggleLine(onLabel, offLabel string, on bool) string {
	if on {
		return onLabel + " on"
	}
	return offLabel + " off"
}

func (v *View) Notify(n core.Notice) {
	icon, ok := noticeIcons[n.Level]
	if !ok {
		icon = noticeIcons[core.NoticeInfo]
	}
	body := fmt.Sprintf("%s %s\n\n%s", icon, v.styles.Bold.Render(n.Title), n.Message)
	v.println(v.styles.Notice(n.Level).Render(body))
}
