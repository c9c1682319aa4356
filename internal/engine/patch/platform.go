package patch

import (
	"regexp"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
)

// The helper-binary name is selected in a switch over process.platform that
// only knows win32 and darwin. A linux case is inserted so the renderer can
// locate the helper shipped with the Linux package.

const linuxHelperCase = `case"linux":return"claude-desktop-helper-"+("arm64"===process.arch?"arm64":"x64");`

// helperSwitchPattern anchors on the platform switch that sits near the
// Windows helper-name evidence. The switch head is captured so the linux
// case can be inserted right after it.
var helperSwitchPattern = regexp.MustCompile(`(switch\s*\(\s*process\.platform\s*\)\s*\{)([^}]*\.exe)`)

func (e *Engine) addLinuxHelperCase(mainPath string) error {
	changed, err := applyToFile(mainPath, Operation{
		Name:   "linux-helper-case",
		Marker: `case"linux"`,
		Transform: func(content string) (string, error) {
			if helperSwitchPattern.FindStringIndex(content) == nil {
				return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "platform helper switch")
			}
			return helperSwitchPattern.ReplaceAllString(content, "${1}"+linuxHelperCase+"${2}"), nil
		},
	})
	if err != nil {
		return err
	}
	if changed {
		e.logger.Info("linux helper-binary case added")
	}
	return nil
}
