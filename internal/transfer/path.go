package transfer

import (
	"fmt"
	"strings"
)

// SplitFolderPath parses a slash-delimited, root-anchored folder path into
// its segments. Surrounding slashes are ignored, so "", "/" and "//" all
// mean the drive root (nil segments). Empty interior segments and the
// relative components "." and ".." are rejected — folder paths name folders,
// they are not filesystem paths.
func SplitFolderPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	segments := strings.Split(trimmed, "/")
	for _, seg := range segments {
		switch seg {
		case "":
			return nil, fmt.Errorf("invalid folder path %q: empty segment", path)
		case ".", "..":
			return nil, fmt.Errorf("invalid folder path %q: relative segment %q", path, seg)
		}
	}

	return segments, nil
}

// joinParentPath renders resolved segments as a display path for error
// messages and logs. The root is "/".
func joinParentPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}
