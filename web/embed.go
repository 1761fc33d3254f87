package web

import (
	_ "embed"
)

//go:embed viewer.html
var ViewerHTML []byte

//go:embed welcome.html
var WelcomeHTML []byte
