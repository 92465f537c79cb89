package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"quanthud/internal/apperr"
	"quanthud/internal/clipimg"
	"quanthud/internal/colorpick"
	"quanthud/internal/commands"
	"quanthud/internal/geometry"
	"quanthud/internal/ipcapi"
	"quanthud/internal/shots"
	"quanthud/internal/window"
)

type noArgs struct{}

func cmd[T any](d *commands.Dispatcher, name string, f func(ctx context.Context, caller window.Role, args T) (any, error)) {
	d.Register(name, commands.Typed(f))
}

// Register installs every UI command on d.
func (s *Services) Register(d *commands.Dispatcher) {
	cmd(d, "capture_screen", func(_ context.Context, _ window.Role, a commands.CaptureArgs) (any, error) {
		return s.cap.Capture((*[4]int)(a.Region))
	})
	cmd(d, "get_cursor_position", func(context.Context, window.Role, noArgs) (any, error) {
		x, y, err := colorpick.CursorPosition()
		if err != nil {
			return nil, err
		}
		return ipcapi.CursorPosition{X: x, Y: y}, nil
	})
	cmd(d, "get_available_monitors", func(context.Context, window.Role, noArgs) (any, error) {
		return s.mon.Infos()
	})

	cmd(d, "load_config", func(context.Context, window.Role, noArgs) (any, error) {
		if s.store == nil {
			return nil, apperr.ErrConfigDirUnavailable
		}
		return s.store.Load()
	})
	cmd(d, "save_config", func(_ context.Context, _ window.Role, a commands.ConfigArgs) (any, error) {
		if s.store == nil {
			return nil, apperr.ErrConfigDirUnavailable
		}
		return nil, s.store.Save(a.Config)
	})

	s.registerDock(d)
	s.registerOverlays(d)
	s.registerScreenshots(d)

	cmd(d, "show_notification_popup", func(_ context.Context, _ window.Role, a commands.MessageArgs) (any, error) {
		s.notes.Show(a.Message)
		return nil, nil
	})
	cmd(d, "emit_event", func(_ context.Context, _ window.Role, a commands.EmitArgs) (any, error) {
		if a.Name == "" {
			return nil, errors.New("event name is required")
		}
		s.emit(a.Name, a.Data)
		return nil, nil
	})
	cmd(d, "get_window_role", func(_ context.Context, caller window.Role, _ noArgs) (any, error) {
		return string(caller), nil
	})
	cmd(d, "get_autostart", func(context.Context, window.Role, noArgs) (any, error) {
		return IsAutostartEnabled(s.cfg.AppName), nil
	})
	cmd(d, "set_autostart", func(_ context.Context, _ window.Role, a commands.AutostartArgs) (any, error) {
		return nil, SetAutostart(s.cfg.AppName, a.Enabled)
	})
	cmd(d, "launch_app", func(_ context.Context, _ window.Role, a commands.PathArgs) (any, error) {
		return nil, shots.LaunchApp(a.Path)
	})
	cmd(d, "pick_file", func(ctx context.Context, _ window.Role, a commands.PickFileArgs) (any, error) {
		if s.deps.PickFile == nil {
			return nil, apperr.ErrNotImplemented
		}
		p, err := s.deps.PickFile(ctx, a.DefaultPath)
		if err != nil || p == "" {
			return nil, err
		}
		return p, nil
	})
	cmd(d, "start_speech_recognition", func(context.Context, window.Role, commands.SpeechArgs) (any, error) {
		return nil, fmt.Errorf("speech recognition: %w", apperr.ErrNotImplemented)
	})
	cmd(d, "stop_speech_recognition", func(context.Context, window.Role, noArgs) (any, error) {
		return nil, fmt.Errorf("speech recognition: %w", apperr.ErrNotImplemented)
	})
}

func (s *Services) registerDock(d *commands.Dispatcher) {
	cmd(d, "tuck_window", func(_ context.Context, caller window.Role, a commands.DockArgs) (any, error) {
		return nil, s.orch.Tuck(caller, geometry.ParsePosition(a.Position), a.MonitorIndex, geometry.ParseTriggerStyle(a.TriggerStyle))
	})
	cmd(d, "show_window", func(_ context.Context, caller window.Role, a commands.DockArgs) (any, error) {
		return nil, s.orch.Show(caller, geometry.ParsePosition(a.Position), a.MonitorIndex)
	})
	cmd(d, "set_window_position", func(_ context.Context, caller window.Role, a commands.DockArgs) (any, error) {
		return nil, s.orch.SetPosition(caller, geometry.ParsePosition(a.Position), a.MonitorIndex)
	})
	cmd(d, "setup_window_size", func(_ context.Context, caller window.Role, a commands.DockArgs) (any, error) {
		return nil, s.orch.SetupMain(caller, a.MonitorIndex)
	})
	cmd(d, "is_window_tucked", func(_ context.Context, caller window.Role, _ noArgs) (any, error) {
		return s.orch.IsTucked(caller)
	})
	cmd(d, "create_dual_window", func(ctx context.Context, _ window.Role, a commands.MonitorArgs) (any, error) {
		return nil, s.orch.CreateDual(ctx, a.MonitorIndex)
	})
	cmd(d, "close_dual_window", func(context.Context, window.Role, noArgs) (any, error) {
		return nil, s.orch.CloseDual()
	})
}

func (s *Services) registerOverlays(d *commands.Dispatcher) {
	cmd(d, "open_region_selector", func(ctx context.Context, _ window.Role, _ noArgs) (any, error) {
		return nil, s.orch.OpenRegionSelector(ctx)
	})
	cmd(d, "set_selected_region", func(_ context.Context, _ window.Role, a commands.RegionArgs) (any, error) {
		return nil, s.orch.SetSelectedRegion(a.Region)
	})
	cmd(d, "get_selected_region", func(context.Context, window.Role, noArgs) (any, error) {
		// A typed nil pointer would still encode as null; return a plain nil
		// so callers can test res == nil.
		if r := s.orch.SelectedRegion(); r != nil {
			return *r, nil
		}
		return nil, nil
	})

	cmd(d, "open_color_picker_overlay", func(ctx context.Context, _ window.Role, _ noArgs) (any, error) {
		return nil, s.orch.OpenColorPicker(ctx)
	})
	cmd(d, "set_picked_color", func(_ context.Context, _ window.Role, a commands.ColorArgs) (any, error) {
		return nil, s.orch.SetPickedColor(a.Color)
	})
	cmd(d, "get_picked_color", func(context.Context, window.Role, noArgs) (any, error) {
		if c := s.orch.PickedColor(); c != nil {
			return *c, nil
		}
		return nil, nil
	})
	cmd(d, "pick_screen_color", func(context.Context, window.Role, noArgs) (any, error) {
		return s.sampler.Pick()
	})

	cmd(d, "open_screenshot_preview", func(ctx context.Context, _ window.Role, a commands.PathArgs) (any, error) {
		return nil, s.orch.OpenScreenshotPreview(ctx, a.Path)
	})
	cmd(d, "get_screenshot_preview_path", func(context.Context, window.Role, noArgs) (any, error) {
		if p := s.orch.PreviewPath(); p != nil {
			return *p, nil
		}
		return nil, nil
	})
	cmd(d, "close_screenshot_preview", func(context.Context, window.Role, noArgs) (any, error) {
		return nil, s.orch.ClosePreview()
	})
}

func (s *Services) registerScreenshots(d *commands.Dispatcher) {
	cmd(d, "list_os_screenshots", func(context.Context, window.Role, noArgs) (any, error) {
		return s.shots.List()
	})
	cmd(d, "read_screenshot_file", func(_ context.Context, _ window.Role, a commands.PathArgs) (any, error) {
		b, err := shots.ReadFull(a.Path)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(b), nil
	})
	cmd(d, "read_screenshot_thumbnail", func(_ context.Context, _ window.Role, a commands.ThumbnailArgs) (any, error) {
		b, err := shots.Thumbnail(a.Path, a.MaxWidth)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.EncodeToString(b), nil
	})
	cmd(d, "open_screenshots_folder", func(_ context.Context, _ window.Role, a commands.FolderArgs) (any, error) {
		return nil, s.shots.OpenFolder(a.CustomFolder)
	})
	cmd(d, "copy_screenshot_to_clipboard", func(_ context.Context, _ window.Role, a commands.PathArgs) (any, error) {
		return nil, clipimg.CopyFile(a.Path)
	})
}
