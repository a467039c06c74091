package wemark

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-wemark/internal/fileutil"
	"github.com/alnah/go-wemark/internal/process"
)

const stageElementID = "wemark-stage"

// JS run on the staging page. Each is evaluated with arguments.
const (
	jsMermaidReady = `() => typeof window.mermaid !== 'undefined'`

	jsMermaidInit = `() => {
		window.mermaid.initialize({ startOnLoad: false, securityLevel: 'loose', theme: 'default' });
		return true;
	}`

	jsRender = `async (id, code, stageID) => {
		const stage = document.getElementById(stageID);
		const { svg } = await window.mermaid.render(id, code, stage);
		return svg;
	}`

	jsClear = `(stageID) => {
		document.getElementById(stageID).innerHTML = '';
		document.querySelectorAll('body > [id^="dmermaid-"], body > [id^="mermaid-"]').forEach((e) => e.remove());
		return true;
	}`

	jsRasterize = `(svg, w, h, scale) => new Promise((resolve, reject) => {
		const img = new Image();
		img.onload = () => {
			const canvas = document.createElement('canvas');
			canvas.width = Math.ceil(w * scale);
			canvas.height = Math.ceil(h * scale);
			const ctx = canvas.getContext('2d');
			ctx.scale(scale, scale);
			ctx.drawImage(img, 0, 0, w, h);
			resolve(canvas.toDataURL('image/png'));
		};
		img.onerror = () => reject(new Error('SVG image failed to decode'));
		img.src = 'data:image/svg+xml;charset=utf-8,' + encodeURIComponent(svg);
	})`
)

// StageConfig configures a Stage.
type StageConfig struct {
	Width   int           // staging surface width in CSS px
	Scale   float64       // device scale for exports
	Script  string        // diagram library URL or local file
	Timeout time.Duration // per-operation fallback timeout
	Browser string        // Chrome binary (empty = ROD_BROWSER_BIN or rod managed)
	Logger  *zap.Logger
}

// Stage is a headless Chrome page holding one hidden, fixed-width staging
// element. It lays out diagrams, rasterizes SVG on a canvas and exports
// fragments. The browser is launched on first use.
// Rod automatically downloads Chromium on first run if not found.
type Stage struct {
	cfg StageConfig

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	cleanup  func()

	// launchErr remembers a failed launch so later diagrams fail fast.
	launchErr error
}

// NewStage creates a Stage. No browser is started until a diagram is
// rendered or a fragment exported.
func NewStage(cfg StageConfig) *Stage {
	if cfg.Width <= 0 {
		cfg.Width = DefaultStageWidth
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultDiagramScale
	}
	if cfg.Script == "" {
		cfg.Script = DefaultMermaidURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Stage{cfg: cfg}
}

// ensureBrowser lazily connects to the browser. Caller holds s.mu.
func (s *Stage) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}
	if s.launchErr != nil {
		return s.launchErr
	}

	// Configure launcher
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := s.cfg.Browser
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || bin != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		s.launchErr = fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		return s.launchErr
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		s.launchErr = fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		return s.launchErr
	}

	s.launcher = l
	s.browser = browser
	s.cfg.Logger.Debug("browser started", zap.Int("pid", l.PID()))
	return nil
}

// ensurePage lazily opens the staging page and waits for the diagram library.
// Caller holds s.mu.
func (s *Stage) ensurePage(ctx context.Context) (*rod.Page, error) {
	if s.page != nil {
		return s.page, nil
	}
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(stageDocument(s.cfg.Width, s.cfg.Script), "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStageSetup, err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: fileURL(path)})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout, err := s.timeout(ctx)
	if err != nil {
		_ = page.Close()
		cleanup()
		return nil, err
	}

	p := page.Context(ctx).Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		_ = page.Close()
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.Wait(rod.Eval(jsMermaidReady)); err != nil {
		_ = page.Close()
		cleanup()
		return nil, fmt.Errorf("%w: diagram library not loaded from %s: %v", ErrStageSetup, s.cfg.Script, err)
	}
	if _, err := p.Eval(jsMermaidInit); err != nil {
		_ = page.Close()
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrStageSetup, err)
	}

	s.page = page
	s.cleanup = cleanup
	s.cfg.Logger.Debug("diagram stage ready", zap.Int("width", s.cfg.Width), zap.String("script", s.cfg.Script))
	return page, nil
}

// timeout returns the time left on ctx, or the configured fallback.
func (s *Stage) timeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		d := time.Until(deadline)
		if d <= 0 {
			return 0, context.DeadlineExceeded
		}
		return d, nil
	}
	return s.cfg.Timeout, nil
}

// Render implements DiagramEngine.
func (s *Stage) Render(ctx context.Context, id, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.ensurePage(ctx)
	if err != nil {
		return "", err
	}
	timeout, err := s.timeout(ctx)
	if err != nil {
		return "", err
	}

	res, err := page.Context(ctx).Timeout(timeout).Eval(jsRender, id, source, stageElementID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDiagramRender, err)
	}
	svg := res.Value.Str()
	if strings.TrimSpace(svg) == "" {
		return "", fmt.Errorf("%w: empty SVG", ErrDiagramRender)
	}
	return svg, nil
}

// Clear implements DiagramEngine. A stage that never started has nothing
// to clear.
func (s *Stage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return nil
	}
	timeout, err := s.timeout(ctx)
	if err != nil {
		return err
	}
	if _, err := s.page.Context(ctx).Timeout(timeout).Eval(jsClear, stageElementID); err != nil {
		return fmt.Errorf("%w: clearing stage: %v", ErrStageSetup, err)
	}
	return nil
}

// Rasterize implements Rasterizer by drawing the SVG onto a scaled canvas.
func (s *Stage) Rasterize(ctx context.Context, svg string, width, height, scale float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.ensurePage(ctx)
	if err != nil {
		return "", err
	}
	timeout, err := s.timeout(ctx)
	if err != nil {
		return "", err
	}

	res, err := page.Context(ctx).Timeout(timeout).Eval(jsRasterize, svg, width, height, scale)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	return res.Value.Str(), nil
}

// Close releases the page, the browser and the browser process group.
func (s *Stage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.page != nil {
		err = multierr.Append(err, s.page.Close())
		s.page = nil
	}
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	if s.browser != nil {
		err = multierr.Append(err, s.browser.Close())
		s.browser = nil
	}
	if s.launcher != nil {
		killLauncher(s.launcher)
		s.launcher = nil
	}
	s.launchErr = nil
	return err
}

// killLauncher terminates Chrome and its helpers, then removes its profile.
func killLauncher(l *launcher.Launcher) {
	if pid := l.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	l.Kill()
	l.Cleanup()
}

// stageDocument builds the staging page: a hidden fixed-width element plus
// the diagram library.
func stageDocument(width int, script string) string {
	src := script
	if !fileutil.IsURL(script) && !strings.HasPrefix(script, "file://") {
		src = fileURL(script)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><script src="%s"></script></head>
<body>
<div id="%s" style="position: fixed; top: 0; left: -10000px; width: %dpx; visibility: hidden;"></div>
</body>
</html>`, html.EscapeString(src), stageElementID, width)
}

// fileURL converts a local path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	return u.String()
}

// Compile-time interface checks.
var (
	_ DiagramEngine = (*Stage)(nil)
	_ Rasterizer    = (*Stage)(nil)
)
