package main

import (
	// Register exporters and import sources via side-effects
	_ "proxyconf/internal/exporters/uri"
	_ "proxyconf/internal/exporters/xray"
	_ "proxyconf/internal/importers/file"
	_ "proxyconf/internal/importers/http"
)

func main() {
	Execute()
}
