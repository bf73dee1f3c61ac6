package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/pdfexport"
)

// shellCmd runs a line based session against one document.
type shellCmd struct {
	file   string
	output string
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	eng   *engine.Engine
	pen   penSettings
	dirty bool
	*root
	fs *flag.FlagSet
}

func (s *shellCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseShellCmd(args []string, r *root) (*shellCmd, error) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	s := &shellCmd{root: r, fs: fs, in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.file, "file", "", "document to open (a fresh canvas when empty)")
	fs.StringVar(&s.output, "output", "", "default path for save (defaults to -file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.file == "" && fs.NArg() > 0 {
		s.file = fs.Arg(0)
	}
	if s.output == "" {
		s.output = s.file
	}
	return s, nil
}

func (s *shellCmd) open() error {
	var err error
	if s.file != "" {
		s.eng, err = s.root.openEngine(s.file)
	} else {
		s.eng, err = engine.Open(nil, s.root.engineOptions()...)
	}
	if err != nil {
		return err
	}
	pen := s.root.settings().Pen
	s.pen = penSettings{
		tool:     document.ToolPen,
		color:    pen.Color,
		width:    pen.Width,
		opacity:  -1,
		fontSize: defaultFontSize,
	}
	return nil
}

func (s *shellCmd) Run() error {
	if err := s.open(); err != nil {
		return err
	}
	defer s.eng.Close()
	fmt.Fprintln(s.out, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			break
		}
		msg, err := s.exec(args)
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			continue
		}
		if msg != "" {
			fmt.Fprintln(s.out, msg)
		}
	}
	if s.dirty {
		fmt.Fprintln(s.errOut, "warning: unsaved changes discarded")
	}
	return scanner.Err()
}

func (s *shellCmd) exec(args []string) (string, error) {
	switch strings.ToLower(args[0]) {
	case "help":
		return shellHelp, nil
	case "set":
		return s.set(args[1:])
	case "undo":
		return s.step(s.eng.Undo, "undo")
	case "redo":
		return s.step(s.eng.Redo, "redo")
	case "zoom":
		if len(args) != 2 {
			return "", fmt.Errorf("zoom requires a factor")
		}
		z, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", fmt.Errorf("zoom: invalid number %q", args[1])
		}
		if err := s.eng.SetZoom(z); err != nil {
			return "", err
		}
		s.dirty = true
		return fmt.Sprintf("zoom %g", s.eng.Viewport().Zoom), nil
	case "info":
		var sb strings.Builder
		if err := describe(&sb, s.eng); err != nil {
			return "", err
		}
		return strings.TrimSuffix(sb.String(), "\n"), nil
	case "save":
		path := s.output
		if len(args) > 1 {
			path = args[1]
		}
		if path == "" {
			return "", fmt.Errorf("save requires a path")
		}
		if err := s.root.saveEngine(s.eng, path); err != nil {
			return "", err
		}
		s.output = path
		s.dirty = false
		return "", nil
	case "render":
		if len(args) != 2 {
			return "", fmt.Errorf("render requires a path")
		}
		return "", s.render(args[1])
	case "pdf":
		if len(args) != 2 {
			return "", fmt.Errorf("pdf requires a path")
		}
		return "", s.pdf(args[1])
	}
	msg, err := applyOp(s.eng, s.pen, args)
	if err == nil {
		s.dirty = true
	}
	return msg, err
}

func (s *shellCmd) step(fn func() (bool, error), what string) (string, error) {
	ok, err := fn()
	if err != nil {
		return "", err
	}
	if !ok {
		return "nothing to " + what, nil
	}
	s.dirty = true
	return what + " done", nil
}

// set changes the pen used by later operations.
func (s *shellCmd) set(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("set requires a name and a value")
	}
	name, value := strings.ToLower(args[0]), args[1]
	switch name {
	case "tool":
		t, err := document.ParseToolKind(value)
		if err != nil {
			return "", err
		}
		s.pen.tool = t
	case "color":
		c, err := document.ParseColor(value)
		if err != nil {
			return "", err
		}
		s.pen.color = c
	case "width", "opacity", "font-size":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("%s: invalid number %q", name, value)
		}
		switch {
		case name == "width" && v > 0:
			s.pen.width = v
		case name == "opacity" && v <= 1:
			s.pen.opacity = v
		case name == "font-size" && v > 0:
			s.pen.fontSize = v
		default:
			return "", fmt.Errorf("%s: %g out of range", name, v)
		}
	case "layer":
		if err := s.eng.SetActiveLayer(value); err != nil {
			return "", err
		}
	case "font":
		s.pen.font = value
	default:
		return "", fmt.Errorf("unknown setting %q", name)
	}
	return name + " = " + value, nil
}

func (s *shellCmd) render(path string) error {
	data, err := s.eng.ExportRaster(s.root.settings().Export.Scale)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.root.reportSaved(path)
	return nil
}

func (s *shellCmd) pdf(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.eng.ExportPDF(f, pdfexport.Options{}); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", f.Name(), cerr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.root.reportSaved(path)
	return nil
}

const shellHelp = `stroke X0 Y0 X1 Y1 [X Y ...]   draw a stroke with the current pen
text X Y WORDS...              place text
text remove ID                 delete text
layer add|remove|select|hide|show|lock|unlock|opacity|rename|move ...
clear                          remove everything on unlocked layers
set tool|color|width|opacity|layer|font-size|font VALUE
undo, redo, zoom FACTOR, info
save [PATH], render PATH, pdf PATH
exit`
