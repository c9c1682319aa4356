package patch

import (
	"regexp"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
)

// mainWindowPageGlob locates the one renderer asset carrying the
// window-type detection that gates title-bar rendering.
const mainWindowPageGlob = ".vite/renderer/main_window/assets/MainWindowPage-*.js"

// negatedGuardPattern matches the minified `if(!a&&b)` shape with
// single-token identifiers. The identifiers are unknown and captured, not
// assumed.
var negatedGuardPattern = regexp.MustCompile(`if\(\s*!\s*([A-Za-z_$][\w$]*)\s*&&\s*([A-Za-z_$][\w$]*)\s*\)`)

// fixWindowTypeGuard flips the negated two-variable guard `if(!a&&b)` to
// `if(a&&b)` in the single matching renderer file. The glob must resolve to
// exactly one file. If the shape is absent the file is assumed already
// patched, verified by the post-condition; if the post-condition finds a
// remaining negated guard the rewrite was ineffective and the step fails.
func (e *Engine) fixWindowTypeGuard(contentDir string) error {
	target, err := uniqueGlob(contentDir, mainWindowPageGlob)
	if err != nil {
		return err
	}

	_, err = applyToFile(target, Operation{
		Name: "window-type-guard",
		Transform: func(content string) (string, error) {
			return negatedGuardPattern.ReplaceAllString(content, `if($1&&$2)`), nil
		},
		Verify: func(content string) error {
			if loc := negatedGuardPattern.FindStringIndex(content); loc != nil {
				return zerr.With(domain.ErrPatchVerifyFailed, "pattern", negatedGuardPattern.String())
			}
			return nil
		},
	})
	return err
}
