package recipebuilder

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Fdump pretty-prints values to w without pointer addresses and with sorted map keys.
func Fdump(w io.Writer, v ...any) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(w, v...)
}
