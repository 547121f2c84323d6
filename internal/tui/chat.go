// Package tui is the interactive chat interface: a scrollback viewport over
// the progress stream and an input line for follow-up questions on the same
// thread.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker runs one request against the active controller and streams progress
// chunks; the channel closes after the terminal chunk.
type Asker func(ctx context.Context, query string) (<-chan string, error)

var (
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true).Padding(0, 1)
)

type chunkMsg string

type streamDoneMsg struct{}

type streamErrMsg struct{ err error }

// Chat is the bubbletea model for the chat session.
type Chat struct {
	ctx   context.Context
	asker Asker
	mode  string

	// Usage, when set, supplies a session spend summary for the header.
	Usage func() string

	viewport viewport.Model
	input    textinput.Model
	lines    []string
	stream   <-chan string
	waiting  bool
	ready    bool
	quitting bool
}

// NewChat creates a chat over the given asker. mode is shown in the header.
func NewChat(ctx context.Context, mode string, asker Asker) *Chat {
	input := textinput.New()
	input.Placeholder = "输入出行问题，回车发送 (ctrl+c 退出)"
	input.Focus()

	return &Chat{
		ctx:   ctx,
		asker: asker,
		mode:  mode,
		input: input,
	}
}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

func listen(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return chunkMsg(chunk)
	}
}

func (c *Chat) start(query string) tea.Cmd {
	return func() tea.Msg {
		ch, err := c.asker(c.ctx, query)
		if err != nil {
			return streamErrMsg{err: err}
		}
		c.stream = ch
		chunk, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return chunkMsg(chunk)
	}
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			c.quitting = true
			return c, tea.Quit
		case "enter":
			query := strings.TrimSpace(c.input.Value())
			if query == "" || c.waiting {
				return c, nil
			}
			c.input.Reset()
			c.waiting = true
			c.appendLine(userStyle.Render("你: ") + query)
			return c, c.start(query)
		}

	case tea.WindowSizeMsg:
		headerHeight := 1
		inputHeight := 3
		if !c.ready {
			c.viewport = viewport.New(msg.Width, msg.Height-headerHeight-inputHeight)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = msg.Height - headerHeight - inputHeight
		}
		c.refresh()

	case chunkMsg:
		c.appendChunk(string(msg))
		return c, listen(c.stream)

	case streamDoneMsg:
		c.waiting = false
		c.stream = nil
		c.appendLine("")

	case streamErrMsg:
		c.waiting = false
		c.stream = nil
		c.appendLine(errorStyle.Render("出错: " + msg.err.Error()))
		c.appendLine("")
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// appendChunk styles progress notices and final answers differently: the
// final answer is the last chunk of a stream, but mid-stream everything
// renders as progress until proven otherwise, so answers are re-styled on
// stream end via appendLine ordering. Chunks that look like notices stay
// dim.
func (c *Chat) appendChunk(chunk string) {
	if strings.HasPrefix(chunk, "处理出错") {
		c.appendLine(errorStyle.Render(chunk))
		return
	}
	if strings.HasSuffix(chunk, "已返回结果") || strings.HasPrefix(chunk, "已完成") {
		c.appendLine(progressStyle.Render("· " + chunk))
		return
	}
	c.appendLine(answerStyle.Render(chunk))
}

func (c *Chat) appendLine(line string) {
	c.lines = append(c.lines, line)
	c.refresh()
}

func (c *Chat) refresh() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.lines, "\n"))
	c.viewport.GotoBottom()
}

// View implements tea.Model.
func (c *Chat) View() string {
	if c.quitting {
		return ""
	}
	if !c.ready {
		return "加载中..."
	}

	header := headerStyle.Render("出行问答助手 · " + c.mode)
	status := ""
	if c.waiting {
		status = progressStyle.Render(" 处理中...")
	} else if c.Usage != nil {
		if usage := c.Usage(); usage != "" {
			status = progressStyle.Render(" " + usage)
		}
	}
	return header + status + "\n" + c.viewport.View() + "\n\n" + c.input.View()
}
