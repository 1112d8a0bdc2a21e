package sexy

import "fmt"

// Match reports whether value fits pattern. An ellipsis in pattern matches
// any single datum; inside a list or array it matches any run of items,
// including none. The returned error names the first mismatching path.
func Match(pattern, value *Node) error {
	return match(pattern, value, "root")
}

func match(pattern, value *Node, path string) error {
	if pattern.Type == NodeEllipsis {
		return nil
	}
	if pattern.Type != value.Type {
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern, value)
	}
	switch pattern.Type {
	case NodeList, NodeArray:
		if !matchItems(pattern.Items, value.Items, path) {
			// Without ellipses items pair up by position, so the first
			// differing pair explains the mismatch.
			if len(pattern.Items) == len(value.Items) && !hasEllipsis(pattern.Items) {
				for i := range pattern.Items {
					if err := match(pattern.Items[i], value.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
						return err
					}
				}
			}
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, value)
		}
		return nil
	default:
		if pattern.Text != value.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, value)
		}
		return nil
	}
}

// matchItems matches item runs, backtracking over ellipses.
func matchItems(patterns, values []*Node, path string) bool {
	if len(patterns) == 0 {
		return len(values) == 0
	}
	if patterns[0].Type == NodeEllipsis {
		for skip := 0; skip <= len(values); skip++ {
			if matchItems(patterns[1:], values[skip:], path) {
				return true
			}
		}
		return false
	}
	if len(values) == 0 {
		return false
	}
	if match(patterns[0], values[0], path) != nil {
		return false
	}
	return matchItems(patterns[1:], values[1:], path)
}

func hasEllipsis(items []*Node) bool {
	for _, item := range items {
		if item.Type == NodeEllipsis {
			return true
		}
	}
	return false
}
