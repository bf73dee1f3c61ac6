package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/engine"
)

// penSettings are the tool settings a scripted operation draws with.
type penSettings struct {
	tool     document.ToolKind
	color    document.Color
	width    float64
	opacity  float64 // negative keeps the tool default
	layer    string
	fontSize float64
	font     string
}

func expectFloats(args []string, op string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", op, a)
		}
		out[i] = v
	}
	return out, nil
}

// applyOp runs one scripted operation against eng and describes what it did.
func applyOp(eng *engine.Engine, s penSettings, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing operation")
	}
	if s.layer != "" {
		if err := eng.SetActiveLayer(s.layer); err != nil {
			return "", fmt.Errorf("layer %s: %w", s.layer, err)
		}
	}
	op, rest := strings.ToLower(args[0]), args[1:]
	switch op {
	case "stroke":
		return drawStroke(eng, s, rest)
	case "text":
		return placeText(eng, s, rest)
	case "layer":
		return layerOp(eng, rest)
	case "clear":
		if err := eng.Clear(); err != nil {
			return "", err
		}
		return "cleared", nil
	}
	return "", fmt.Errorf("unsupported operation %q", op)
}

func drawStroke(eng *engine.Engine, s penSettings, args []string) (string, error) {
	coords, err := expectFloats(args, "stroke")
	if err != nil {
		return "", err
	}
	if len(coords) < 4 || len(coords)%2 != 0 {
		return "", fmt.Errorf("stroke requires at least two x y pairs")
	}
	if err := eng.SetTool(s.tool); err != nil {
		return "", err
	}
	if err := eng.SetColor(s.color); err != nil {
		return "", err
	}
	if err := eng.SetWidth(s.width); err != nil {
		return "", err
	}
	if s.opacity >= 0 {
		if err := eng.SetStrokeOpacity(s.opacity); err != nil {
			return "", err
		}
	}
	before := eng.Snapshot().StrokeCount()
	if err := eng.Begin(coords[0], coords[1]); err != nil {
		return "", err
	}
	for i := 2; i < len(coords); i += 2 {
		if err := eng.Move(coords[i], coords[i+1]); err != nil {
			return "", err
		}
	}
	if err := eng.End(); err != nil {
		return "", err
	}
	if eng.Snapshot().StrokeCount() == before {
		return "", fmt.Errorf("stroke rejected: layer %s is locked", eng.ActiveLayer())
	}
	return fmt.Sprintf("%s stroke with %d points on %s", s.tool, len(coords)/2, eng.ActiveLayer()), nil
}

func placeText(eng *engine.Engine, s penSettings, args []string) (string, error) {
	if len(args) == 2 && strings.EqualFold(args[0], "remove") {
		if err := eng.RemoveText(args[1]); err != nil {
			return "", err
		}
		return "removed text " + args[1], nil
	}
	if len(args) < 3 {
		return "", fmt.Errorf("text requires x y and content")
	}
	pos, err := expectFloats(args[:2], "text")
	if err != nil {
		return "", err
	}
	content := strings.Join(args[2:], " ")
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("text content cannot be empty")
	}
	id, err := eng.AddText(pos[0], pos[1], content, document.TextStyle{
		FontSize:   s.fontSize,
		Color:      s.color,
		FontFamily: s.font,
	})
	if err != nil {
		return "", err
	}
	return "text " + id, nil
}

func layerOp(eng *engine.Engine, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("layer requires a subcommand")
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	need := func(n int, usage string) error {
		if len(rest) != n {
			return fmt.Errorf("layer %s requires %s", sub, usage)
		}
		return nil
	}
	switch sub {
	case "add":
		id, err := eng.AddLayer(strings.Join(rest, " "))
		if err != nil {
			return "", err
		}
		return "added layer " + id, nil
	case "remove":
		if err := need(1, "ID"); err != nil {
			return "", err
		}
		return "removed layer " + rest[0], eng.RemoveLayer(rest[0])
	case "select":
		if err := need(1, "ID"); err != nil {
			return "", err
		}
		return "selected layer " + rest[0], eng.SetActiveLayer(rest[0])
	case "hide", "show":
		if err := need(1, "ID"); err != nil {
			return "", err
		}
		return sub + " layer " + rest[0], eng.SetLayerVisible(rest[0], sub == "show")
	case "lock", "unlock":
		if err := need(1, "ID"); err != nil {
			return "", err
		}
		return sub + " layer " + rest[0], eng.SetLayerLocked(rest[0], sub == "lock")
	case "opacity":
		if err := need(2, "ID VALUE"); err != nil {
			return "", err
		}
		v, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return "", fmt.Errorf("layer opacity: invalid number %q", rest[1])
		}
		return "opacity of layer " + rest[0], eng.SetLayerOpacity(rest[0], v)
	case "rename":
		if len(rest) < 2 {
			return "", fmt.Errorf("layer rename requires ID NAME")
		}
		return "renamed layer " + rest[0], eng.RenameLayer(rest[0], strings.Join(rest[1:], " "))
	case "move":
		if err := need(2, "ID INDEX"); err != nil {
			return "", err
		}
		idx, err := strconv.Atoi(rest[1])
		if err != nil {
			return "", fmt.Errorf("layer move: invalid index %q", rest[1])
		}
		return "moved layer " + rest[0], eng.MoveLayer(rest[0], idx)
	}
	return "", fmt.Errorf("unsupported layer command %q", sub)
}
