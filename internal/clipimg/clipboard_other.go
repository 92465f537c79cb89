//go:build !windows

package clipimg

import "quanthud/internal/apperr"

const supported = false

func Publish(DIB) error {
	return apperr.Unsupported("copy_screenshot_to_clipboard")
}
