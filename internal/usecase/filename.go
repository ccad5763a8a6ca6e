package usecase

import (
	"regexp"
	"strings"
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// AllowedFile сообщает, что имя содержит точку и разрешенное расширение (без учета регистра)
func AllowedFile(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(name[i+1:])]
	return ok
}

// SanitizeFilename превращает имя клиента в безопасное имя файла. Путь не обрезается до
// последнего сегмента: разделители путей и пробелы становятся "_" ("a/b/c.png" -> "a_b_c.png"),
// остальные символы вне [A-Za-z0-9_.-] удаляются,
// ведущие и конечные "." и "_" обрезаются.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
