package window

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quanthud/internal/geometry"
	"quanthud/internal/overlay"
	"quanthud/internal/policy"
)

// Monitors is the slice of monitor.Geometry the orchestrator needs.
type Monitors interface {
	List() ([]geometry.Monitor, error)
	Primary() (geometry.Monitor, error)
	Resolve(index *int, caller *geometry.Rect) (geometry.Monitor, error)
	WorkAreaHeight(m geometry.Monitor) int
}

type Options struct {
	Host     Host
	Monitors Monitors
	Registry *overlay.Registry
	Delays   policy.Delays
	Logger   *slog.Logger

	// Sleep blocks the calling command; After runs f later without
	// blocking it. Both default to the time package.
	Sleep func(time.Duration)
	After func(time.Duration, func())
}

type Orchestrator struct {
	host   Host
	mons   Monitors
	reg    *overlay.Registry
	delays policy.Delays
	log    *slog.Logger
	sleep  func(time.Duration)
	after  func(time.Duration, func())
}

func NewOrchestrator(opts Options) *Orchestrator {
	o := &Orchestrator{
		host:   opts.Host,
		mons:   opts.Monitors,
		reg:    opts.Registry,
		delays: opts.Delays,
		log:    opts.Logger,
		sleep:  opts.Sleep,
		after:  opts.After,
	}
	if o.reg == nil {
		o.reg = overlay.NewRegistry()
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	o.log = o.log.With(slog.String("component", "window"))
	if o.sleep == nil {
		o.sleep = time.Sleep
	}
	if o.after == nil {
		o.after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return o
}

func (o *Orchestrator) Registry() *overlay.Registry { return o.reg }

func (o *Orchestrator) window(role Role) (Window, error) {
	w, ok := o.host.Get(role.Canonical())
	if !ok {
		return nil, fmt.Errorf("window %q not found", role)
	}
	return w, nil
}

// dockTarget resolves the caller's window and the monitor it should dock to.
func (o *Orchestrator) dockTarget(caller Role, index *int) (Window, geometry.Monitor, error) {
	w, err := o.window(caller)
	if err != nil {
		return nil, geometry.Monitor{}, err
	}
	if index != nil {
		m, err := o.mons.Resolve(index, nil)
		return w, m, err
	}
	b, err := w.Bounds()
	if err != nil {
		return nil, geometry.Monitor{}, err
	}
	m, err := o.mons.Resolve(nil, &b)
	return w, m, err
}

// SetupMain sizes the caller to full height, docks it left and shows it.
func (o *Orchestrator) SetupMain(caller Role, index *int) error {
	w, m, err := o.dockTarget(caller, index)
	if err != nil {
		return err
	}
	r := geometry.DockRect(m, geometry.Left, geometry.Shown, o.mons.WorkAreaHeight(m))
	o.log.Debug("setup dock", slog.String("role", string(caller)), slog.Int("monitor", m.Index), slog.String("rect", r.String()))
	if err := w.SetSize(r.Width, r.Height); err != nil {
		return err
	}
	if err := w.SetPosition(r.X, r.Y); err != nil {
		return err
	}
	return w.Show()
}

func (o *Orchestrator) Tuck(caller Role, pos geometry.Position, index *int, style geometry.TriggerStyle) error {
	w, m, err := o.dockTarget(caller, index)
	if err != nil {
		return err
	}
	r := geometry.DockRect(m, pos, geometry.TuckMode(style), o.mons.WorkAreaHeight(m))
	o.log.Debug("tuck", slog.String("role", string(caller)), slog.String("position", string(pos)), slog.String("rect", r.String()))
	if err := w.SetSize(r.Width, r.Height); err != nil {
		return err
	}
	return w.SetPosition(r.X, r.Y)
}

// Show expands the caller. The move happens before the resize so the wide
// window never overhangs a neighbouring monitor.
func (o *Orchestrator) Show(caller Role, pos geometry.Position, index *int) error {
	w, m, err := o.dockTarget(caller, index)
	if err != nil {
		return err
	}
	r := geometry.DockRect(m, pos, geometry.Shown, o.mons.WorkAreaHeight(m))
	o.log.Debug("show", slog.String("role", string(caller)), slog.String("position", string(pos)), slog.String("rect", r.String()))
	if err := w.SetPosition(r.X, r.Y); err != nil {
		return err
	}
	return w.SetSize(r.Width, r.Height)
}

// SetPosition moves the caller to the shown-width edge without resizing.
func (o *Orchestrator) SetPosition(caller Role, pos geometry.Position, index *int) error {
	w, m, err := o.dockTarget(caller, index)
	if err != nil {
		return err
	}
	r := geometry.DockRect(m, pos, geometry.Shown, o.mons.WorkAreaHeight(m))
	return w.SetPosition(r.X, m.Y)
}

func (o *Orchestrator) IsTucked(caller Role) (bool, error) {
	w, m, err := o.dockTarget(caller, nil)
	if err != nil {
		return false, err
	}
	b, err := w.Bounds()
	if err != nil {
		return false, err
	}
	return geometry.IsTucked(b.Width, m.ScaleFactor), nil
}

// replace closes a live window of role and waits for it to settle.
func (o *Orchestrator) replace(role Role) {
	w, ok := o.host.Get(role)
	if !ok {
		return
	}
	if err := w.Close(); err != nil {
		o.log.Warn("close before replace", slog.String("role", string(role)), slog.Any("err", err))
	}
	o.sleep(o.delays.ReplaceSettle)
}

// showLater lets the web content paint once before the window appears.
func (o *Orchestrator) showLater(role Role, w Window, focus bool) {
	o.after(o.delays.Show, func() {
		if err := w.Show(); err != nil {
			o.log.Warn("show overlay", slog.String("role", string(role)), slog.Any("err", err))
			return
		}
		if focus {
			_ = w.Focus()
		}
	})
}

func overlaySpec(route, title string, fullscreen bool) Spec {
	return Spec{
		Route:       route,
		Title:       title,
		Fullscreen:  fullscreen,
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
	}
}

func (o *Orchestrator) OpenRegionSelector(ctx context.Context) error {
	o.reg.Region.Clear()
	o.replace(RoleRegionSelector)
	w, err := o.host.Create(ctx, RoleRegionSelector, overlaySpec("/region-selector", "Select Region", true))
	if err != nil {
		return fmt.Errorf("failed to build window: %w", err)
	}
	o.showLater(RoleRegionSelector, w, true)
	return nil
}

// OpenColorPicker covers the whole virtual desktop. The window is placed
// with its frame stripped, otherwise the compositor pads it by an invisible
// border and seams between monitors become unclickable.
func (o *Orchestrator) OpenColorPicker(ctx context.Context) error {
	o.reg.Color.Clear()

	ms, err := o.mons.List()
	if err != nil {
		return err
	}
	primary, err := o.mons.Primary()
	if err != nil {
		return err
	}
	p, _ := geometry.ColorOverlay(ms, primary)

	o.replace(RoleColorPicker)
	w, err := o.host.Create(ctx, RoleColorPicker, overlaySpec(p.Route(), "Pick Color", false))
	if err != nil {
		return fmt.Errorf("failed to build window: %w", err)
	}
	o.log.Debug("color overlay", slog.String("bounds", p.Bounds.String()), slog.Int("pmx", p.PrimaryOffsetX), slog.Int("pmw", p.PrimaryWidth))
	if err := w.Place(p.Bounds); err != nil {
		return err
	}
	o.showLater(RoleColorPicker, w, true)
	return nil
}

// OpenScreenshotPreview stores path first so the new window can read it
// as soon as it loads.
func (o *Orchestrator) OpenScreenshotPreview(ctx context.Context, path string) error {
	o.reg.Preview.Put(path)
	o.replace(RoleScreenshotPreview)
	w, err := o.host.Create(ctx, RoleScreenshotPreview, overlaySpec("/screenshot-preview", "Screenshot Preview", true))
	if err != nil {
		return fmt.Errorf("failed to build window: %w", err)
	}
	o.showLater(RoleScreenshotPreview, w, true)
	return nil
}

// CreateDual opens the twin dock at the right edge of the chosen monitor,
// or of the primary one.
func (o *Orchestrator) CreateDual(ctx context.Context, index *int) error {
	o.replace(RoleDualRight)

	var (
		m   geometry.Monitor
		err error
	)
	if index != nil {
		m, err = o.mons.Resolve(index, nil)
	} else {
		m, err = o.mons.Primary()
	}
	if err != nil {
		return err
	}
	r := geometry.DockRect(m, geometry.Right, geometry.Shown, o.mons.WorkAreaHeight(m))

	w, err := o.host.Create(ctx, RoleDualRight, Spec{
		Route:       "/",
		Title:       "QuantHUD Right",
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		NoShadow:    true,
		NoDrop:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create dual window: %w", err)
	}
	if err := w.SetSize(r.Width, r.Height); err != nil {
		return err
	}
	if err := w.SetPosition(r.X, r.Y); err != nil {
		return err
	}
	o.showLater(RoleDualRight, w, false)
	return nil
}

func (o *Orchestrator) close(role Role) error {
	w, ok := o.host.Get(role)
	if !ok {
		return nil
	}
	return w.Close()
}

func (o *Orchestrator) CloseDual() error { return o.close(RoleDualRight) }

func (o *Orchestrator) ClosePreview() error {
	o.reg.Preview.Clear()
	return o.close(RoleScreenshotPreview)
}

// SetSelectedRegion records the selector's result and closes it. A nil
// region means the user cancelled.
func (o *Orchestrator) SetSelectedRegion(r *overlay.Region) error {
	if r == nil {
		o.reg.Region.Clear()
	} else {
		o.reg.Region.Put(*r)
	}
	return o.close(RoleRegionSelector)
}

func (o *Orchestrator) SelectedRegion() *overlay.Region { return o.reg.TakeRegion() }

// SetPickedColor records the picker's result and closes it. A nil color
// means the user cancelled.
func (o *Orchestrator) SetPickedColor(color *string) error {
	o.reg.Color.Put(color)
	return o.close(RoleColorPicker)
}

func (o *Orchestrator) PickedColor() *string { return o.reg.TakeColor() }

func (o *Orchestrator) PreviewPath() *string { return o.reg.PreviewPath() }

// HideOverlay hides role if it is live.
func (o *Orchestrator) HideOverlay(role Role) error {
	w, ok := o.host.Get(role)
	if !ok {
		return nil
	}
	return w.Hide()
}

// ToggleMain hides a visible dock, or shows and focuses a hidden one.
func (o *Orchestrator) ToggleMain() error {
	w, err := o.window(RoleMain)
	if err != nil {
		return err
	}
	visible, err := w.IsVisible()
	if err != nil {
		return err
	}
	if visible {
		return w.Hide()
	}
	if err := w.Show(); err != nil {
		return err
	}
	return w.Focus()
}
