package server

import (
	"net/http"
)

// staticHandler serves files from dir for every path the API does not claim.
func staticHandler(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}
