// Package pathutil implements the pure, UNIX-style string operations the
// import resolver uses to interpret relative import literals. None of
// these functions touch a source unit name directly — callers convert at
// the boundary (see vfs.SUN) so that normalization never leaks into the
// registry's key space.
package pathutil

import "strings"

// Normalize collapses "./" segments, cancels "../" segments against the
// segment that precedes them, and squashes runs of "/" into one. A
// leading "../" that has nothing to cancel is left in place. Backslashes
// are ordinary characters at this level, never separators.
func Normalize(p string) string {
	if p == "" {
		return ""
	}

	absolute := strings.HasPrefix(p, "/")
	trailingSlash := len(p) > 1 && strings.HasSuffix(p, "/") || p == "/"

	raw := strings.Split(p, "/")
	// Drop the empty segments produced by a leading or trailing "/";
	// those are tracked separately via absolute/trailingSlash.
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}

	lastCollapses := false
	var out []string
	for i, seg := range segments {
		last := i == len(segments)-1
		switch seg {
		case ".":
			if last {
				lastCollapses = true
			}
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				if last {
					lastCollapses = true
				}
			} else {
				out = append(out, "..")
			}
		default:
			out = append(out, seg)
		}
	}

	var b strings.Builder
	if absolute {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(out, "/"))

	if trailingSlash && lastCollapses {
		if b.Len() > 0 && b.String()[b.Len()-1] != '/' {
			b.WriteByte('/')
		}
	}

	result := b.String()
	if result == "" && absolute {
		return "/"
	}
	return result
}

// StripLastSegment removes everything after (and including the
// separator before) the final segment of p, then trims any trailing
// slashes left behind. "a/b//c.sol" -> "a/b"; "a" -> ""; "/a" -> "";
// "/" -> "".
func StripLastSegment(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(p[:idx+1], "/")
}

// CountLeadingParent counts consecutive leading "../" segments in an
// already-normalized import path and returns that count along with the
// remainder of the path after them.
func CountLeadingParent(pNorm string) (int, string) {
	if pNorm == "" {
		return 0, ""
	}

	segments := strings.Split(pNorm, "/")
	k := 0
	for k < len(segments) && segments[k] == ".." {
		k++
	}
	return k, strings.Join(segments[k:], "/")
}

// JoinNonEmpty joins two path fragments with a single "/", never
// inserting a separator when either side is empty.
func JoinNonEmpty(prefix, tail string) string {
	if prefix == "" {
		return tail
	}
	if tail == "" {
		return prefix
	}
	return prefix + "/" + tail
}
