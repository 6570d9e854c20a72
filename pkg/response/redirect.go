package response

import "net/http"

// Redirect issues a 302 Found redirect. Payment callback flows land the
// browser on a safe page instead of returning a JSON body.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

// RedirectWithCode issues a redirect with a specific status code.
// Valid codes are 301, 302, 303, 307 and 308.
func RedirectWithCode(w http.ResponseWriter, r *http.Request, url string, code int) {
	http.Redirect(w, r, url, code)
}
