package server

import (
	"fmt"
	"html"
	"net/http"
)

// The pages are inlined so the server stays a single self-contained
// binary; they only need to say one thing and close.

const pageStyle = `
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
           display: flex; align-items: center; justify-content: center; height: 100vh;
           margin: 0; background: #f5f5f5; }
    .container { text-align: center; background: white; padding: 2rem;
                 border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    h1 { color: #1DB954; margin: 0 0 1rem 0; }
    h1.err { color: #c0392b; }
    p { color: #666; margin: 0; }
`

// fragmentRelayPage forwards the URL fragment (where the implicit grant
// puts the token) to /handle-response as a query string, since fragments
// never reach the server.
const fragmentRelayPage = `<!DOCTYPE html>
<html>
<head><title>Authorizing...</title></head>
<body>
<script>
    var fragment = window.location.hash.substring(1);
    window.location.replace("/handle-response" + (fragment ? "?" + fragment : ""));
</script>
</body>
</html>
`

func renderPage(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, body)
}

func page(title, heading, headingClass, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>%s</style>
</head>
<body>
    <div class="container">
        <h1 class=%q>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, html.EscapeString(title), pageStyle, headingClass, heading, html.EscapeString(message))
}

func successPage(displayName, appName string) string {
	greeting := "Authorization successful."
	if displayName != "" {
		greeting = fmt.Sprintf("Hello, %s! Authorization successful.", displayName)
	}
	if appName != "" {
		greeting += fmt.Sprintf(" %s can now access your Spotify data.", appName)
	}
	return page("Authorization Successful", "&#10003; Authorized", "",
		greeting+" You can close this window and return to the terminal.")
}

func deniedPage(appName string) string {
	message := "You did not grant the authorization."
	if appName != "" {
		message = fmt.Sprintf("You did not grant %s any authorization.", appName)
	}
	return page("Access Denied", "Access denied", "err",
		message+" You can close this window.")
}

func errorPage(detail string) string {
	return page("Authorization Error", "Something went wrong", "err", detail)
}
