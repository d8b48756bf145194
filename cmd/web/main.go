package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/napguard/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

// pageData fills the landing page.
type pageData struct {
	SSHHost string
	SSHPort string
}

func main() {
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	data := pageData{
		SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		SSHPort: config.GetEnv("SSH_DISPLAY_PORT", "2222"),
	}

	http.HandleFunc("/", handler(data, logger))

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "url", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// handler serves the landing page for every path.
func handler(data pageData, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("failed to render page", "err", err)
		}
	}
}
