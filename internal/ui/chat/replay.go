// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the transcript replay viewer.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/fenceline/internal/config"
	"github.com/jeranaias/fenceline/internal/logging"
	"github.com/jeranaias/fenceline/internal/model"
	"github.com/jeranaias/fenceline/internal/reveal"
	"github.com/jeranaias/fenceline/internal/segment"
	"github.com/jeranaias/fenceline/internal/ui/components"
	"github.com/jeranaias/fenceline/internal/ui/styles"
	"github.com/jeranaias/fenceline/internal/util"
)

const (
	// revealFrameDelay is the time between reveal animation frames.
	revealFrameDelay = 40 * time.Millisecond

	// chromeLines is the height used by the header and the two footer lines.
	chromeLines = 3

	progressWidth = 20
)

// =============================================================================
// MESSAGES
// =============================================================================

// tokenTickMsg releases the next replay token.
type tokenTickMsg struct {
	Time time.Time
}

// revealFrameMsg advances one reveal animation.
type revealFrameMsg struct {
	key   string
	frame int
}

func tokenTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tokenTickMsg{Time: t}
	})
}

func revealFrameCmd(key string, frame int) tea.Cmd {
	return tea.Tick(revealFrameDelay, func(time.Time) tea.Msg {
		return revealFrameMsg{key: key, frame: frame}
	})
}

// animation is a reveal in progress for one segment.
type animation struct {
	messageID  string
	segmentKey string
	frames     []string
}

// =============================================================================
// REPLAY MODEL
// =============================================================================

// Options configures a replay.
type Options struct {
	Theme  *styles.Theme
	Config *config.Config

	// Reveal enables the scramble animation when non-nil.
	Reveal *reveal.Controller

	Logger *logrus.Logger
}

// Model replays a transcript token by token. Assistant messages are fed
// through a StreamingBuffer and the whole message is re-segmented on every
// flush; other messages appear at once.
type Model struct {
	source *model.Conversation
	shown  []*model.Message
	next   int

	// Message being streamed
	stream *model.Message
	tokens []string
	pos    int
	buffer *StreamingBuffer
	stats  *model.StreamStats

	totalTokens int
	emitted     int

	// Last segmentation of the streamed message
	segments []segment.Segment
	issues   []segment.ValidationIssue

	viewport *components.ChatViewport
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap
	theme    *styles.Theme

	tokenDelay time.Duration
	reveal     *reveal.Controller
	animations map[string]*animation
	log        *logrus.Logger
	ctx        context.Context

	width  int
	height int
	paused bool
	done   bool
}

// NewReplay creates a replay of conv.
func NewReplay(conv *model.Conversation, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = theme.Spinner().Bubbles()
	sp.Style = theme.Info

	total := 0
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleAssistant {
			total += len(Tokenize(msg.Content))
		}
	}

	m := &Model{
		source:      conv,
		buffer:      NewStreamingBufferWithConfig(cfg.Stream.BatchSize, cfg.Stream.MaxFPS),
		totalTokens: total,
		viewport: components.NewChatViewport(theme, components.SegmentOptions{
			Width:           cfg.UI.Width,
			ShowLineNumbers: cfg.UI.ShowLineNumbers,
			CodeStyle:       cfg.UI.CodeStyle,
		}),
		spinner:    sp,
		help:       help.New(),
		keys:       DefaultKeyMap(),
		theme:      theme,
		tokenDelay: max(time.Duration(cfg.Stream.TokenDelayMs)*time.Millisecond, time.Millisecond),
		reveal:     opts.Reveal,
		animations: make(map[string]*animation),
		log:        log,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	m.viewport.SetSize(m.width, m.height-chromeLines)
	return m
}

// Init starts the spinner and the token clock.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tokenTickCmd(m.tokenDelay))
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.SetSize(msg.Width, max(msg.Height-chromeLines, 1))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tokenTickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		if !m.paused {
			cmd = m.step()
		}
		if m.done {
			return m, cmd
		}
		return m, tea.Batch(cmd, tokenTickCmd(m.tokenDelay))

	case revealFrameMsg:
		return m, m.advanceAnimation(msg)

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil
	case key.Matches(msg, m.keys.Skip):
		return m, m.skip()
	case key.Matches(msg, m.keys.LineNumbers):
		on := m.viewport.ToggleLineNumbers()
		m.log.WithField("line_numbers", on).Debug("toggled line numbers")
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// STREAMING
// =============================================================================

// step releases one token, starting the next message when needed.
func (m *Model) step() tea.Cmd {
	if m.stream == nil && !m.startNext() {
		m.done = true
		m.log.WithField("messages", len(m.shown)).Debug("replay finished")
		return nil
	}

	if m.pos < len(m.tokens) {
		m.stats.Token()
		m.buffer.Write(m.tokens[m.pos])
		m.pos++
		m.emitted++
	}
	if m.pos >= len(m.tokens) {
		return m.finishStream()
	}

	if content, ok := m.buffer.Flush(); ok {
		m.stream.AppendToken(content)
		m.stats.Flush(m.stream.GetDisplayContent())
		return m.refresh(false)
	}
	return nil
}

// startNext shows every non-assistant message up to the next assistant
// message and starts streaming it. Returns false when the transcript is
// exhausted.
func (m *Model) startNext() bool {
	for m.next < len(m.source.Messages) {
		src := m.source.Messages[m.next]
		m.next++

		if src.Role != model.RoleAssistant {
			m.shown = append(m.shown, src.Clone())
			m.viewport.SetMessages(m.shown)
			continue
		}

		stream := model.NewAssistantMessage()
		stream.ID = src.ID
		stream.Timestamp = src.Timestamp

		m.stream = stream
		m.tokens = Tokenize(src.Content)
		m.pos = 0
		m.stats = model.NewStreamStats()
		m.buffer.Reset()
		m.segments, m.issues = nil, nil

		m.shown = append(m.shown, stream)
		m.viewport.SetMessages(m.shown)
		return true
	}
	return false
}

// skip releases every remaining token of the current message.
func (m *Model) skip() tea.Cmd {
	if m.stream == nil {
		return nil
	}
	for ; m.pos < len(m.tokens); m.pos++ {
		m.stats.Token()
		m.buffer.Write(m.tokens[m.pos])
		m.emitted++
	}
	return m.finishStream()
}

// finishStream flushes what is left and finalizes the message.
func (m *Model) finishStream() tea.Cmd {
	if content, ok := m.buffer.ForceFlush(); ok {
		m.stream.AppendToken(content)
		m.stats.Flush(m.stream.GetDisplayContent())
	}
	m.stats.Finish()
	m.stream.FinalizeStream(m.stats)
	cmd := m.refresh(true)

	m.log.WithFields(logrus.Fields{
		"message":  m.stream.ID,
		"tokens":   len(m.tokens),
		"segments": len(m.segments),
		"issues":   len(m.issues),
	}).Debug("message replayed")

	m.stream = nil
	m.tokens = nil
	m.pos = 0
	return cmd
}

// refresh re-segments the streamed message and redraws.
func (m *Model) refresh(final bool) tea.Cmd {
	content := m.stream.GetDisplayContent()
	m.segments = displaySegments(content)
	m.issues = segment.ValidateSyntax(content)

	cmd := m.startAnimations(final)
	m.viewport.Refresh()
	return cmd
}

// displaySegments is the segmentation as rendered: a buffer without fences
// is one prose segment.
func displaySegments(content string) []segment.Segment {
	if segs := segment.Split(content); segs != nil {
		return segs
	}
	if content == "" {
		return nil
	}
	return []segment.Segment{{Kind: segment.KindText, Content: content, IsComplete: true}}
}

// =============================================================================
// REVEAL ANIMATION
// =============================================================================

// startAnimations begins the reveal of every settled text segment that has
// not been revealed before. While streaming, the last segment may still grow
// and is left alone.
func (m *Model) startAnimations(final bool) tea.Cmd {
	if m.reveal == nil {
		return nil
	}

	renderer := m.viewport.MessageList().Renderer(m.stream.ID)
	var cmds []tea.Cmd
	for i, seg := range m.segments {
		if !seg.IsText() || (!final && i == len(m.segments)-1) {
			continue
		}
		k := reveal.Key(m.stream.ID, seg.Key())
		if _, running := m.animations[k]; running {
			continue
		}
		ok, err := m.reveal.ShouldAnimate(m.ctx, k, seg)
		if err != nil {
			m.log.WithError(err).WithField("key", k).Warn("reveal lookup failed")
			continue
		}
		if !ok {
			continue
		}

		frames := m.reveal.Frames(seg.Content)
		m.animations[k] = &animation{messageID: m.stream.ID, segmentKey: seg.Key(), frames: frames}
		renderer.SetOverride(seg.Key(), frames[0])
		cmds = append(cmds, revealFrameCmd(k, 1))
	}
	return tea.Batch(cmds...)
}

// advanceAnimation shows the next frame, or ends the animation and records
// the key as revealed.
func (m *Model) advanceAnimation(msg revealFrameMsg) tea.Cmd {
	a, ok := m.animations[msg.key]
	if !ok {
		return nil
	}
	renderer := m.viewport.MessageList().Renderer(a.messageID)

	if msg.frame < len(a.frames) {
		renderer.SetOverride(a.segmentKey, a.frames[msg.frame])
		m.viewport.Refresh()
		return revealFrameCmd(msg.key, msg.frame+1)
	}

	renderer.ClearOverride(a.segmentKey)
	delete(m.animations, msg.key)
	if err := m.reveal.Done(m.ctx, msg.key); err != nil {
		m.log.WithError(err).WithField("key", msg.key).Warn("reveal mark failed")
	}
	m.viewport.Refresh()
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the message viewport and the footer.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
		m.help.View(m.keys),
	)
}

func (m *Model) renderHeader() string {
	title := m.theme.Header.Render(util.TruncateWidth(m.source.GetTitle(), max(m.width/2, 10)))
	var status string
	switch {
	case m.done:
		status = m.theme.RenderSuccess("done")
	case m.paused:
		status = m.theme.RenderWarning("paused")
	default:
		status = m.spinner.View() + " " + m.theme.Muted.Render("streaming")
	}
	return title + " " + status
}

func (m *Model) renderFooter() string {
	parts := []string{m.segmentSummary(), m.validationSummary()}

	parts = append(parts, styles.RenderStreamProgress(progressWidth, m.emitted, m.totalTokens))

	line := parts[0]
	for _, p := range parts[1:] {
		line += " | " + p
	}
	return m.theme.Footer.Render(util.TruncateWidth(line, max(m.width-2, 10)))
}

func (m *Model) segmentSummary() string {
	code := len(segment.CodeSegments(m.segments))
	return util.Plural(len(m.segments), "segment") + " (" + util.Plural(code, "code block") + ")"
}

func (m *Model) validationSummary() string {
	if len(m.issues) == 0 {
		return styles.StatusIndicators.Success + " fences balanced"
	}
	return styles.StatusIndicators.Warning + " " + m.issues[0].String()
}

// Done reports whether the whole transcript has been replayed.
func (m *Model) Done() bool {
	return m.done
}

// Messages returns the messages shown so far.
func (m *Model) Messages() []*model.Message {
	return m.shown
}
