package resolver

import "strings"

// Normalize removes dot-segments from an assembled path or URL following
// RFC 3986 section 5.2.4. The whole string is processed as given; query and
// fragment are not split off. Strings without a "." are returned unchanged.
func Normalize(p string) string {
	if !strings.Contains(p, ".") {
		return p
	}

	in := p
	var out []string

	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}

	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case in == "/.":
			out = append(out, "/")
			in = ""
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/..":
			pop()
			out = append(out, "/")
			in = ""
		case strings.HasPrefix(in, "/../"):
			pop()
			in = in[3:]
		case in == "." || in == "..":
			in = ""
		default:
			// Move the first segment, including a leading "/", to the output.
			end := strings.IndexByte(in[1:], '/')
			if end < 0 {
				out = append(out, in)
				in = ""
			} else {
				out = append(out, in[:end+1])
				in = in[end+1:]
			}
		}
	}

	return strings.Join(out, "")
}
