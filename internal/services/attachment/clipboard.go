package attachment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var errNoImage = errors.New("no image found in clipboard")

// clipboardReader is one way of getting image bytes out of the clipboard.
// tool names the binary that must be on PATH.
type clipboardReader struct {
	tool string
	read func(ctx context.Context) ([]byte, error)
}

// clipboardReaders are tried in order; the first non-empty image wins
var clipboardReaders = map[string][]clipboardReader{
	"darwin": {
		{tool: "pngpaste", read: command("pngpaste", "-")},
		{tool: "osascript", read: readOSAScript},
	},
	"linux": {
		{tool: "wl-paste", read: command("wl-paste", "--type", "image/png")},
		{tool: "wl-paste", read: sniffed(command("wl-paste", "--no-newline"))},
		{tool: "xclip", read: command("xclip", "-selection", "clipboard", "-t", "image/png", "-o")},
		{tool: "xclip", read: command("xclip", "-selection", "clipboard", "-t", "image/jpeg", "-o")},
	},
}

// ReadImageFromClipboard returns the image currently on the system clipboard
func ReadImageFromClipboard(ctx context.Context) ([]byte, error) {
	readers, ok := clipboardReaders[runtime.GOOS]
	if !ok {
		return nil, fmt.Errorf("clipboard reading not supported on %s", runtime.GOOS)
	}

	var tried []string
	for _, r := range readers {
		if _, err := exec.LookPath(r.tool); err != nil {
			continue
		}
		tried = append(tried, r.tool)
		data, err := r.read(ctx)
		if err == nil && len(data) > 0 {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if len(tried) == 0 {
		var tools []string
		for _, r := range readers {
			tools = append(tools, r.tool)
		}
		return nil, fmt.Errorf("no clipboard tool found (install one of %s)", strings.Join(dedupe(tools), ", "))
	}
	return nil, errNoImage
}

func command(name string, args ...string) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).Output()
	}
}

// sniffed accepts untyped clipboard output only when it looks like an image
func sniffed(read func(context.Context) ([]byte, error)) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		data, err := read(ctx)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(detectMimeType(data), "image/") {
			return nil, errNoImage
		}
		return data, nil
	}
}

const pngScript = `
set theFile to (path to temporary items folder as text) & "vantage-clipboard.png"
try
	set theImage to the clipboard as «class PNGf»
	set theFileRef to open for access file theFile with write permission
	write theImage to theFileRef
	close access theFileRef
	return POSIX path of theFile
on error
	return ""
end try
`

// readOSAScript writes the clipboard PNG to a temp file via AppleScript
func readOSAScript(ctx context.Context) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", pngScript).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return nil, errNoImage
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clipboard image: %w", err)
	}
	return data, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
