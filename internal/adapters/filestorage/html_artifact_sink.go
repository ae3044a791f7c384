package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"centris-scraper-service/internal/core/port"
)

// HTMLArtifactSink складывает диагностические снимки разметки на диск.
// Сам снимок - единственный способ потом понять, что именно отдал сайт.
type HTMLArtifactSink struct {
	dir    string
	logger port.LoggerPort
}

func NewHTMLArtifactSink(dir string, logger port.LoggerPort) *HTMLArtifactSink {
	return &HTMLArtifactSink{dir: dir, logger: logger}
}

// SaveHTML пишет снимок в файл "{tag}_{timestamp}.html".
// Любой сбой записи только логируется: артефакты не должны ломать обход.
func (s *HTMLArtifactSink) SaveHTML(tag string, html string) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn("Failed to create artifact directory", port.Fields{"dir": s.dir, "error": err.Error()})
		return
	}

	name := fmt.Sprintf("%s_%s.html", tag, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		s.logger.Warn("Failed to write artifact", port.Fields{"path": path, "error": err.Error()})
		return
	}
	s.logger.Info("Saved HTML artifact", port.Fields{"path": path, "size": len(html)})
}
