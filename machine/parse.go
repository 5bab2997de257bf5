package machine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/unlock/state"
)

// Parse decodes one machine per non-blank line of r. Each line has the form
//
//	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
//
// where the bracketed diagram is the toggle target ('#' on, '.' off), each
// parenthesised list is a button, and the optional braced list is the
// accumulation target. Failures are reported as *ParseError.
func Parse(r io.Reader) ([]*Machine, error) {
	var (
		out  []*Machine
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		m, err := ParseLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("machine: read input: %w", err)
	}

	return out, nil
}

// ParseLine decodes a single machine description.
func ParseLine(s string) (*Machine, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrSyntax)
	}

	m := &Machine{}
	lights, width, err := parseDiagram(fields[0])
	if err != nil {
		return nil, err
	}
	m.Lights, m.Width = lights, width

	for _, f := range fields[1:] {
		switch {
		case strings.HasPrefix(f, "("):
			if m.Dim > 0 {
				return nil, fmt.Errorf("%w: button %q after target", ErrSyntax, f)
			}
			inner, err := enclosed(f, '(', ')')
			if err != nil {
				return nil, err
			}
			ids, err := parseInts(inner)
			if err != nil {
				return nil, err
			}
			m.Buttons = append(m.Buttons, Button(ids))
		case strings.HasPrefix(f, "{"):
			if m.Dim > 0 {
				return nil, fmt.Errorf("%w: duplicate target %q", ErrSyntax, f)
			}
			inner, err := enclosed(f, '{', '}')
			if err != nil {
				return nil, err
			}
			vals, err := parseInts(inner)
			if err != nil {
				return nil, err
			}
			if len(vals) == 0 {
				return nil, fmt.Errorf("%w: empty target", ErrSyntax)
			}
			if m.Joltages, err = state.PackCounters(vals...); err != nil {
				return nil, err
			}
			m.Dim = len(vals)
		default:
			return nil, fmt.Errorf("%w: unexpected token %q", ErrSyntax, f)
		}
	}
	if len(m.Buttons) == 0 {
		return nil, ErrNoButtons
	}

	return m, nil
}

func parseDiagram(f string) (state.Lights, int, error) {
	inner, err := enclosed(f, '[', ']')
	if err != nil {
		return 0, 0, err
	}
	var positions []int
	for i, c := range inner {
		switch c {
		case '#':
			positions = append(positions, i)
		case '.':
		default:
			return 0, 0, fmt.Errorf("%w: bad light %q in %q", ErrSyntax, c, f)
		}
	}
	if len(inner) > state.LightsWidth {
		return 0, 0, fmt.Errorf("%w: %d lights (max %d)", state.ErrBitPosition, len(inner), state.LightsWidth)
	}
	l, err := state.PackBits(positions...)
	if err != nil {
		return 0, 0, err
	}

	return l, len(inner), nil
}

func enclosed(f string, open, close byte) (string, error) {
	if len(f) < 2 || f[0] != open || f[len(f)-1] != close {
		return "", fmt.Errorf("%w: want %c...%c, got %q", ErrSyntax, open, close, f)
	}

	return f[1 : len(f)-1], nil
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrSyntax, p)
		}
		out[i] = n
	}

	return out, nil
}
