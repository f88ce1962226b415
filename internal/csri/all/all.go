// Package all registers all renderer backends
package all

import (
	_ "github.com/wader/subcat/internal/csri/ffass"
	_ "github.com/wader/subcat/internal/csri/libcsri"
)
