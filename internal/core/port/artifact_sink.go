package port

// ArtifactSinkPort определяет контракт для сохранения диагностических снимков HTML.
// Сохранение делается по принципу best-effort: сбой записи артефакта
// не должен ломать обработку страницы.
type ArtifactSinkPort interface {
	SaveHTML(tag string, html string)
}
