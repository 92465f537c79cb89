package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"quanthud/internal/commands"
	"quanthud/internal/ipcapi"
	"quanthud/internal/overlay"
	"quanthud/internal/window"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is the surface bound into a window's web view. The dock calls its own
// command table; overlays reach the dock's over the bus.
type App struct {
	role   window.Role
	route  string
	caller commands.Caller
	log    *slog.Logger

	mu  sync.RWMutex
	ctx context.Context
}

func NewApp(role window.Role, route string, caller commands.Caller, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{role: role, route: route, caller: caller, log: log.With(slog.String("component", "app"), slog.String("window", string(role)))}
}

func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

func (a *App) context() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *App) runtimeCtx() (context.Context, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx, a.ctx != nil
}

// emit delivers to this window's web view. Events raised before startup are
// dropped.
func (a *App) emit(name string, data any) {
	if ctx, ok := a.runtimeCtx(); ok {
		runtime.EventsEmit(ctx, name, data)
	}
}

// domReady moves the single-page UI to this window's route.
func (a *App) domReady(ctx context.Context) {
	if a.route == "" || a.route == "/" {
		return
	}
	lit, err := json.Marshal(a.route)
	if err != nil {
		a.log.Warn("route", slog.String("route", a.route), slog.Any("err", err))
		return
	}
	runtime.WindowExecJS(ctx, "window.history.replaceState(null, '', "+string(lit)+");"+
		"window.dispatchEvent(new PopStateEvent('popstate'));")
}

func (a *App) call(command string, args any, out any) error {
	return a.caller.Call(a.context(), command, args, out)
}

func (a *App) CaptureScreen(region *overlay.Region) (ipcapi.CaptureResult, error) {
	var res ipcapi.CaptureResult
	err := a.call("capture_screen", commands.CaptureArgs{Region: region}, &res)
	return res, err
}

func (a *App) GetCursorPosition() (ipcapi.CursorPosition, error) {
	var pos ipcapi.CursorPosition
	err := a.call("get_cursor_position", nil, &pos)
	return pos, err
}

func (a *App) GetAvailableMonitors() ([]ipcapi.MonitorInfo, error) {
	var ms []ipcapi.MonitorInfo
	err := a.call("get_available_monitors", nil, &ms)
	return ms, err
}

func (a *App) LoadConfig() (string, error) {
	var text string
	err := a.call("load_config", nil, &text)
	return text, err
}

func (a *App) SaveConfig(config string) error {
	return a.call("save_config", commands.ConfigArgs{Config: config}, nil)
}

func (a *App) TuckWindow(position string, monitorIndex *int, triggerStyle *string) error {
	return a.call("tuck_window", commands.DockArgs{Position: position, MonitorIndex: monitorIndex, TriggerStyle: triggerStyle}, nil)
}

func (a *App) ShowWindow(position string, monitorIndex *int) error {
	return a.call("show_window", commands.DockArgs{Position: position, MonitorIndex: monitorIndex}, nil)
}

func (a *App) SetWindowPosition(position string, monitorIndex *int) error {
	return a.call("set_window_position", commands.DockArgs{Position: position, MonitorIndex: monitorIndex}, nil)
}

func (a *App) SetupWindowSize(monitorIndex *int) error {
	return a.call("setup_window_size", commands.DockArgs{MonitorIndex: monitorIndex}, nil)
}

func (a *App) IsWindowTucked() (bool, error) {
	var tucked bool
	err := a.call("is_window_tucked", nil, &tucked)
	return tucked, err
}

func (a *App) CreateDualWindow(monitorIndex *int) error {
	return a.call("create_dual_window", commands.MonitorArgs{MonitorIndex: monitorIndex}, nil)
}

func (a *App) CloseDualWindow() error {
	return a.call("close_dual_window", nil, nil)
}

func (a *App) OpenRegionSelector() error {
	return a.call("open_region_selector", nil, nil)
}

func (a *App) SetSelectedRegion(region *overlay.Region) error {
	return a.call("set_selected_region", commands.RegionArgs{Region: region}, nil)
}

func (a *App) GetSelectedRegion() (*overlay.Region, error) {
	var r *overlay.Region
	err := a.call("get_selected_region", nil, &r)
	return r, err
}

func (a *App) OpenColorPickerOverlay() error {
	return a.call("open_color_picker_overlay", nil, nil)
}

// SetPickedColor takes nil to report a cancelled pick.
func (a *App) SetPickedColor(color *string) error {
	return a.call("set_picked_color", commands.ColorArgs{Color: color}, nil)
}

func (a *App) GetPickedColor() (*string, error) {
	var c *string
	err := a.call("get_picked_color", nil, &c)
	return c, err
}

func (a *App) PickScreenColor() (string, error) {
	var hex string
	err := a.call("pick_screen_color", nil, &hex)
	return hex, err
}

func (a *App) OpenScreenshotPreview(path string) error {
	return a.call("open_screenshot_preview", commands.PathArgs{Path: path}, nil)
}

func (a *App) GetScreenshotPreviewPath() (*string, error) {
	var p *string
	err := a.call("get_screenshot_preview_path", nil, &p)
	return p, err
}

func (a *App) CloseScreenshotPreview() error {
	return a.call("close_screenshot_preview", nil, nil)
}

func (a *App) ListOsScreenshots() ([]ipcapi.OsScreenshot, error) {
	shots := []ipcapi.OsScreenshot{}
	err := a.call("list_os_screenshots", nil, &shots)
	return shots, err
}

func (a *App) ReadScreenshotFile(path string) (string, error) {
	var b64 string
	err := a.call("read_screenshot_file", commands.PathArgs{Path: path}, &b64)
	return b64, err
}

func (a *App) ReadScreenshotThumbnail(path string, maxWidth int) (string, error) {
	var b64 string
	err := a.call("read_screenshot_thumbnail", commands.ThumbnailArgs{Path: path, MaxWidth: maxWidth}, &b64)
	return b64, err
}

func (a *App) OpenScreenshotsFolder(customFolder *string) error {
	return a.call("open_screenshots_folder", commands.FolderArgs{CustomFolder: customFolder}, nil)
}

func (a *App) CopyScreenshotToClipboard(path string) error {
	return a.call("copy_screenshot_to_clipboard", commands.PathArgs{Path: path}, nil)
}

func (a *App) ShowNotificationPopup(message string) error {
	return a.call("show_notification_popup", commands.MessageArgs{Message: message}, nil)
}

// EmitEvent fans an event out to every window, this one included.
func (a *App) EmitEvent(name string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return a.call("emit_event", commands.EmitArgs{Name: name, Data: raw}, nil)
}

func (a *App) GetWindowRole() (string, error) {
	var role string
	err := a.call("get_window_role", nil, &role)
	return role, err
}

// GetWindowRoute is answered locally: only this process knows the route it
// was started on.
func (a *App) GetWindowRoute() string {
	if a.route == "" {
		return "/"
	}
	return a.route
}

func (a *App) GetAutostart() (bool, error) {
	var on bool
	err := a.call("get_autostart", nil, &on)
	return on, err
}

func (a *App) SetAutostart(enabled bool) error {
	return a.call("set_autostart", commands.AutostartArgs{Enabled: enabled}, nil)
}

func (a *App) LaunchApp(path string) error {
	return a.call("launch_app", commands.PathArgs{Path: path}, nil)
}

// PickFile returns nil when the dialog is dismissed.
func (a *App) PickFile(defaultPath *string) (*string, error) {
	var p *string
	err := a.call("pick_file", commands.PickFileArgs{DefaultPath: defaultPath}, &p)
	return p, err
}

func (a *App) StartSpeechRecognition(language *string) error {
	return a.call("start_speech_recognition", commands.SpeechArgs{Language: language}, nil)
}

func (a *App) StopSpeechRecognition() error {
	return a.call("stop_speech_recognition", nil, nil)
}
