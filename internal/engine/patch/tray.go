package patch

import (
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/zerr"

	"claudeport/internal/core/domain"
)

// The tray-icon handler races against the desktop-integration bus when the
// menu is toggled rapidly: the tray object can be destroyed and recreated
// before the bus has settled. The fix promotes the handler to support
// suspension, discards overlapping invocations inside a 500ms window and
// waits 50ms after the tray object is destroyed.
//
// All identifiers involved are minified and vendor-controlled, so every
// name is captured from a fixed structural shape; a shape that fails to
// match aborts the patch instead of applying speculatively.

const (
	trayGuardWindowMS = 500
	traySettleDelayMS = 50
)

// trayHandlerPattern captures the name of the function bound to the
// tray-menu-toggle event.
var trayHandlerPattern = regexp.MustCompile(`\.on\((["'])tray-menu-toggled["']\s*,\s*([A-Za-z_$][\w$]*)\s*\)`)

// Marker tokens identifying already-injected fragments.
const (
	trayGuardFlag   = "__trayGuard"
	traySettleToken = "/*__traySettle*/"
)

func (e *Engine) fixTrayHandler(mainPath string) error {
	changed, err := applyToFile(mainPath, Operation{
		Name:      "tray-handler-race",
		Transform: transformTrayHandler,
	})
	if err != nil {
		return err
	}
	if changed {
		e.logger.Info("tray handler concurrency guard injected")
	}
	return nil
}

func transformTrayHandler(content string) (string, error) {
	handler, err := captureTrayHandler(content)
	if err != nil {
		return "", err
	}

	trayVar, err := captureTrayVar(content, handler)
	if err != nil {
		return "", err
	}

	content, err = promoteToAsync(content, handler)
	if err != nil {
		return "", err
	}

	localStart, err := captureFirstLocal(content, handler)
	if err != nil {
		return "", err
	}

	content = injectGuard(content, handler, localStart)

	return injectSettleDelay(content, handler, trayVar)
}

// captureTrayHandler extracts the handler function name from the event
// binding. Multiple bindings to different functions are ambiguous.
func captureTrayHandler(content string) (string, error) {
	matches := trayHandlerPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "tray-menu-toggled binding")
	}

	name := matches[0][2]
	for _, m := range matches[1:] {
		if m[2] != name {
			return "", zerr.With(domain.ErrPatchTargetAmbiguous, "shape", "tray-menu-toggled binding")
		}
	}
	return name, nil
}

// captureTrayVar extracts the tray-object variable initialized to null
// immediately before the handler's declaration.
func captureTrayVar(content, handler string) (string, error) {
	pattern := regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=\s*null\s*[,;]?\s*(?:async\s+)?function\s+` + regexp.QuoteMeta(handler) + `\s*\(`)
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "tray variable before handler")
	}
	return m[1], nil
}

// promoteToAsync makes the handler declaration async so the injected delay
// can be awaited. Already-async declarations are left untouched.
func promoteToAsync(content, handler string) (string, error) {
	pattern := regexp.MustCompile(`(async\s+)?function\s+` + regexp.QuoteMeta(handler) + `\s*\(`)
	if pattern.FindStringIndex(content) == nil {
		return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "handler declaration")
	}

	return pattern.ReplaceAllStringFunc(content, func(decl string) string {
		if strings.HasPrefix(decl, "async") {
			return decl
		}
		return "async " + decl
	}), nil
}

// handlerBody locates the handler's body and returns the offsets between
// its enclosing braces. Brace counting keeps every later capture scoped to
// the handler; an anchor found past the closing brace would otherwise land
// in whatever vendor function happens to follow.
func handlerBody(content, handler string) (int, int, error) {
	declPattern := regexp.MustCompile(`function\s+` + regexp.QuoteMeta(handler) + `\s*\([^)]*\)`)
	loc := declPattern.FindStringIndex(content)
	if loc == nil {
		return 0, 0, zerr.With(domain.ErrPatchTargetNotFound, "shape", "handler declaration")
	}

	open := strings.Index(content[loc[1]:], "{")
	if open < 0 {
		return 0, 0, zerr.With(domain.ErrPatchTargetNotFound, "shape", "handler body")
	}
	start := loc[1] + open + 1

	depth := 1
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i, nil
			}
		}
	}
	return 0, 0, zerr.With(domain.ErrPatchTargetNotFound, "shape", "handler body")
}

// captureFirstLocal finds the first local declaration inside the handler's
// body and returns its index. The guard is injected immediately before it,
// which anchors the injection past any parameter destructuring noise.
func captureFirstLocal(content, handler string) (int, error) {
	start, end, err := handlerBody(content, handler)
	if err != nil {
		return 0, err
	}

	localPattern := regexp.MustCompile(`(?:const|let|var)\s+[A-Za-z_$][\w$]*`)
	m := localPattern.FindStringIndex(content[start:end])
	if m == nil {
		return 0, zerr.With(domain.ErrPatchTargetNotFound, "shape", "first local declaration")
	}
	return start + m[0], nil
}

// injectGuard inserts the re-entry guard ahead of the handler's first local
// declaration. The flag on the function object doubles as the marker.
func injectGuard(content, handler string, localStart int) string {
	if strings.Contains(content, trayGuardFlag) {
		return content
	}

	guard := fmt.Sprintf("if(%[1]s.%[2]s)return;%[1]s.%[2]s=!0;setTimeout(()=>{%[1]s.%[2]s=!1},%[3]d);",
		handler, trayGuardFlag, trayGuardWindowMS)

	return content[:localStart] + guard + content[localStart:]
}

// injectSettleDelay appends an awaited delay after the tray object is
// destroyed and nulled, letting the desktop-integration bus settle before
// the object can be recreated. The destroy sequence must sit inside the
// handler body; awaiting anywhere else would not be legal.
func injectSettleDelay(content, handler, trayVar string) (string, error) {
	if strings.Contains(content, traySettleToken) {
		return content, nil
	}

	start, end, err := handlerBody(content, handler)
	if err != nil {
		return "", err
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(trayVar) + `\.destroy\(\)\s*([,;])\s*` + regexp.QuoteMeta(trayVar) + `\s*=\s*null`)
	loc := pattern.FindStringIndex(content[start:end])
	if loc == nil {
		return "", zerr.With(domain.ErrPatchTargetNotFound, "shape", "tray destroy sequence")
	}

	delay := fmt.Sprintf(",await new Promise(s=>setTimeout(s,%d))%s", traySettleDelayMS, traySettleToken)
	at := start + loc[1]
	return content[:at] + delay + content[at:], nil
}
