//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

func WritePNG([]byte) (<-chan struct{}, error) { return nil, errUnsupported }

func WriteText(string) (<-chan struct{}, error) { return nil, errUnsupported }
