package report

import (
	"container/list"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/treykane/carbon-blueprint/internal/logging"
)

// Environment variables consulted for the Glamour style, in order.
const (
	EnvGlamourStyle     = "CARBON_BLUEPRINT_GLAMOUR_STYLE"
	envGlamourStyleBase = "GLAMOUR_STYLE"
)

var log = logging.New("report")

var (
	// maxRendererCacheEntries bounds the number of width-specific renderers
	// kept alive.
	maxRendererCacheEntries = 8

	rendererCacheMu sync.Mutex
	rendererCache   = map[int]*glamour.TermRenderer{}

	// rendererCacheOrder holds widths in LRU order, least recent at the front.
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
)

// Render formats markdown for a terminal of the given width. When Glamour
// cannot build a renderer or render the input, the Markdown is returned as-is.
func Render(markdown string, width int) string {
	if markdown == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(width)
	if err != nil {
		log.Error("create markdown renderer", "width", width, "error", err)
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		log.Error("render report markdown", "width", width, "error", err)
		return markdown
	}
	return out
}

// getRenderer returns the cached renderer for width, creating it on a miss.
// Renders run on command goroutines, so access is serialized.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[width]; ok {
		if node, ok := rendererCacheNodes[width]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[width] = renderer
	rendererCacheNodes[width] = rendererCacheOrder.PushBack(width)
	evictOldestRendererIfNeeded()
	return renderer, nil
}

func evictOldestRendererIfNeeded() {
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		width, _ := oldest.Value.(int)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, width)
		delete(rendererCacheNodes, width)
	}
}

func resetRendererCacheForTests() {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	rendererCache = map[int]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[int]*list.Element{}
}

// glamourStyleOption picks the style from CARBON_BLUEPRINT_GLAMOUR_STYLE, then
// GLAMOUR_STYLE, then "dark". "auto" queries the terminal background, which
// can leak escape sequences into input, so it is opt-in.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv(EnvGlamourStyle)))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv(envGlamourStyleBase)))
	}
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
