package formtoggle

import (
	"embed"
	"io/fs"
)

// RuntimeScript is the file name of the browser runtime inside RuntimeAssetsFS.
const RuntimeScript = "formtoggle.js"

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser runtime so Go applications can serve it
// next to pre-rendered pages.
//
// Typical mount:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(formtoggle.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
