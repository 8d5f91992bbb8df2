package guide

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sandpit/internal/session"
)

// Block — один исполняемый блок кода, извлечённый из markdown-гайда.
type Block struct {
	Index    int    // порядковый номер блока в гайде
	Language string // тег после открывающего ```
	Line     int    // 1-based строка открывающего забора
	Code     string
}

// Guide is a markdown document with its runnable code blocks.
type Guide struct {
	Path   string
	Blocks []Block
}

// Snippet converts a block to the session input form.
func (b Block) Snippet() session.Snippet {
	return session.Snippet{SourceText: b.Code, DeclaredLanguage: b.Language}
}

// Load reads a markdown file and extracts its fenced code blocks.
func Load(path string) (*Guide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Guide{Path: path, Blocks: ExtractBlocks(string(data))}, nil
}

// ExtractBlocks собирает все закрытые ```-блоки документа по порядку.
// Незакрытый хвостовой блок отбрасывается: исполнять обрубок хуже,
// чем не исполнять ничего.
func ExtractBlocks(markdown string) []Block {
	var blocks []Block
	lines := strings.Split(markdown, "\n")

	inFence := false
	var lang string
	var start int
	var body []string

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			if inFence {
				body = append(body, line)
			}
			continue
		}
		if !inFence {
			inFence = true
			lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			start = i + 1
			body = body[:0]
			continue
		}
		blocks = append(blocks, Block{
			Index:    len(blocks),
			Language: lang,
			Line:     start,
			Code:     strings.Join(body, "\n"),
		})
		inFence = false
	}
	return blocks
}

// ListGuides возвращает отсортированный список всех *.md файлов в директории.
func ListGuides(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
