// ABOUTME: Usage landing page rendered from embedded markdown
// ABOUTME: Served ungated at / so new users can find the MCP endpoint

package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed usage.md
var usageMarkdown []byte

var usagePage = template.Must(template.New("usage").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>keygate</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 42rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; color: #1a1a1a; }
  code, pre { font-family: ui-monospace, monospace; background: #f4f4f4; border-radius: 4px; }
  code { padding: 0.1rem 0.3rem; }
  pre { padding: 0.75rem; overflow-x: auto; }
  pre code { padding: 0; background: none; }
  table { border-collapse: collapse; }
  th, td { border: 1px solid #ddd; padding: 0.35rem 0.6rem; text-align: left; }
  h1, h2 { border-bottom: 1px solid #eee; padding-bottom: 0.25rem; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// handleUsage renders the usage page from embedded markdown. Deliberately
// ungated: it documents how to authenticate.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	// The "/" pattern matches every unrouted path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert(usageMarkdown, &htmlBuf); err != nil {
		s.logger.Error("failed to convert usage markdown", "error", err)
		htmlBuf.WriteString("<p>Failed to render usage page.</p>")
	}

	data := struct {
		Content template.HTML
	}{
		Content: template.HTML(htmlBuf.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := usagePage.Execute(w, data); err != nil {
		s.logger.Error("failed to render usage page", "error", err)
	}
}
