package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/analysis"
	"github.com/treykane/carbon-blueprint/internal/blueprint"
	"github.com/treykane/carbon-blueprint/internal/config"
)

// Analyzer uploads a blueprint and returns the service's response.
// *analysis.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, bp blueprint.Blueprint) (analysis.Response, error)
}

// focusArea identifies which pane receives unbound keys.
type focusArea int

const (
	focusBrowser focusArea = iota
	focusDropZone
	focusReport
)

var focusOrder = []focusArea{focusBrowser, focusDropZone, focusReport}

func (f focusArea) String() string {
	switch f {
	case focusDropZone:
		return "drop zone"
	case focusReport:
		return "report"
	default:
		return "browser"
	}
}

// inFlightRequest is the outstanding submission. Only a result carrying its
// seq is applied.
type inFlightRequest struct {
	seq    int
	cancel context.CancelFunc
}

// Model holds the Bubble Tea state for the entire UI.
type Model struct {
	cfg      config.Config
	analyzer Analyzer
	rules    blueprint.Rules
	endpoint string

	// Selection panel
	picker   filepicker.Model
	dropZone textinput.Model
	focus    focusArea
	dragging bool
	selected *blueprint.Blueprint

	// Analysis flow
	flow         flowState
	requestSeq   int
	inFlight     *inFlightRequest
	reportSource string

	// Report panel
	viewport     viewport.Model
	spinner      spinner.Model
	rendering    bool
	renderSeq    int
	pendingWidth int
	renderCache  map[int]string

	// Keybindings
	keyForAction map[string][]string
	keyToAction  map[string]string

	// Session state persisted between runs
	statePath string
	session   sessionState

	status   string
	showHelp bool

	// Layout sizing
	width  int
	height int

	now func() time.Time
}

// New builds the UI model. The file browser starts in cfg.StartDir, then the
// directory of the last selection, then the working directory.
func New(cfg config.Config, analyzer Analyzer) (*Model, error) {
	statePath, err := StatePath()
	if err != nil {
		appLog.Warn("resolve session state path", "error", err)
		statePath = ""
	}
	session, err := loadSessionState(statePath)
	if err != nil {
		appLog.Warn("load session state", "path", statePath, "error", err)
	}

	startDir := cfg.StartDir
	if startDir == "" {
		startDir = session.LastDir
	}
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve start dir: %w", err)
		}
		startDir = wd
	}
	endpoint, err := cfg.AnalyzeURL()
	if err != nil {
		return nil, fmt.Errorf("resolve analyze url: %w", err)
	}

	picker := filepicker.New()
	picker.CurrentDirectory = startDir
	picker.AllowedTypes = append([]string(nil), cfg.AcceptedExtensions...)
	picker.AutoHeight = false
	picker.ShowPermissions = false
	picker.ShowSize = true

	drop := textinput.New()
	drop.Placeholder = messageDropZoneHint
	drop.CharLimit = InputCharLimit
	drop.Prompt = "› "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &Model{
		cfg:      cfg,
		analyzer: analyzer,
		rules: blueprint.Rules{
			Extensions: cfg.AcceptedExtensions,
			MaxBytes:   cfg.MaxUploadBytes(),
		},
		endpoint:    endpoint,
		picker:      picker,
		dropZone:    drop,
		focus:       focusBrowser,
		flow:        idleFlow(),
		viewport:    viewport.New(0, 0),
		spinner:     spin,
		renderCache: map[int]string{},
		statePath:   statePath,
		session:     session,
		status:      "Ready",
		now:         time.Now,
	}
	m.loadKeybindings(cfg)
	return m, nil
}

// Preselect selects path as if it had been dropped on the window.
func (m *Model) Preselect(path string) bool {
	return m.selectPath(path, sourceArgument)
}

// Init starts the spinner and the first directory read of the file browser.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.picker.Init())
}

// Update is the Bubble Tea update loop: handle events and emit commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case analyzeResultMsg:
		return m.handleAnalyzeResult(msg)
	case renderRequestMsg:
		return m.handleRenderRequest(msg)
	case renderResultMsg:
		return m.handleRenderResult(msg)
	case statusMsg:
		m.status = msg.Text
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	// Directory listings and errors from the file browser.
	return m.updatePicker(msg)
}
