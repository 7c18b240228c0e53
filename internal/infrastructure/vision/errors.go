package vision

import "errors"

// ErrRendererUnavailable сборка без OpenCV
var ErrRendererUnavailable = errors.New("gocv build tag is not enabled")
