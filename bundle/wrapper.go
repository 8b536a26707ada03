package bundle

import (
	"fmt"
	"os"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// WriteWrapper generates the forwarding wrapper for one platform
// script at path. The wrapper relays its entire argument list to the
// real script nested inside the packaged tree. Existing wrappers are
// overwritten; shell wrappers are marked executable.
func WriteWrapper(path, platform, script string, style WrapperStyle) error {
	var content string
	var mode os.FileMode

	switch style {
	case StyleBatch:
		content = batchWrapper(platform, script)
		mode = 0644
	case StyleShell:
		content = shellWrapper(platform, script)
		mode = 0755
	default:
		return errors.Errorf("unknown wrapper style '%s'", style)
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrapf(err, "problem writing wrapper %s", path)
	}

	// WriteFile does not change the mode of a wrapper that already
	// existed from a previous run.
	if err := os.Chmod(path, mode); err != nil {
		return errors.Wrapf(err, "problem setting mode of wrapper %s", path)
	}

	grip.Debug(message.Fields{
		"message":  "generated wrapper",
		"path":     path,
		"platform": platform,
		"style":    style,
	})

	return nil
}

func batchWrapper(platform, script string) string {
	return fmt.Sprintf("@echo off\r\n%%~dp0\\Writing3D\\scripts\\%s\\%s %%*\r\n",
		platform, script)
}

func shellWrapper(platform, script string) string {
	return fmt.Sprintf("SCRIPT_DIR=\"$(cd \"$(dirname \"$0\")\" && pwd)\"\n\"$SCRIPT_DIR\"/Writing3D/scripts/%s/%s \"$@\"\n",
		platform, script)
}
