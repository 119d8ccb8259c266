// Package version хранит сведения о сборке бинаря showroom.
package version

import "fmt"

// Значения подставляются при сборке релиза:
//
//	go build -ldflags "-X .../internal/version.version=v1.2.0 \
//	  -X .../internal/version.commit=$(git rev-parse --short HEAD) \
//	  -X .../internal/version.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Build описывает конкретную сборку.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Current возвращает сведения о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// String — однострочное представление для логов и health-ответов.
func String() string {
	b := Current()
	return fmt.Sprintf("showroom version=%s commit=%s date=%s", b.Version, b.Commit, b.Date)
}
