package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sketch-studio/internal/studio/models"

	"golang.org/x/image/colornames"
)

// ============================================================
// Input validation
// ============================================================

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

// ParseColor принимает #rgb, #rrggbb или имя цвета SVG; имена приводятся к #rrggbb.
func ParseColor(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if hexColorRe.MatchString(v) {
		return v, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidColor, value)
}

// ParseDepth глубина выдавливания: положительное целое.
func ParseDepth(raw string) (int, error) {
	depth, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || depth <= 0 {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidDepth, raw)
	}
	return depth, nil
}
