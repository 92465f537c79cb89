//go:build !windows

package winhost

import "os/exec"

func hideConsole(*exec.Cmd) {}
