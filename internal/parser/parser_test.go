package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-chat/internal/models"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_notes.txt", "Mentors students on weekends.\n")
	writeFile(t, dir, "a_projects.md", "# Projects\n\n* **Resume bot** built with Go\n* Kafka migration\n")
	writeFile(t, dir, "photo.png", "not text")
	writeFile(t, dir, "empty.txt", "   \n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	pages, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "a_projects.md", pages[0].Source)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Contains(t, pages[0].Text, "Resume bot built with Go")
	assert.NotContains(t, pages[0].Text, "**")
	assert.NotContains(t, pages[0].Text, "#")

	assert.Equal(t, "b_notes.txt", pages[1].Source)
	assert.Equal(t, "Mentors students on weekends.", pages[1].Text)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.rtf", "{\\rtf1}")
	_, err := LoadFile(path)
	assert.Error(t, err)
	assert.False(t, Supported(path))
	assert.True(t, Supported("RESUME.PDF"))
}

func TestLoadFileBrokenPDF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.pdf", "definitely not a pdf")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestMarkdownToText(t *testing.T) {
	got := MarkdownToText([]byte("## Skills\n\nPython and `SQL`,\nSpark.\n\n```\nselect 1\n```\n"))
	assert.Equal(t, "Skills\nPython and SQL, Spark.\nselect 1", got)
}

func TestXMLHelpers(t *testing.T) {
	assert.Equal(t, "Data Engineer\nAcme Corp",
		xmlText(`<w:body><w:p><w:r><w:t>Data Engineer</w:t></w:r></w:p>`+"\n"+`<w:p><w:t>Acme Corp</w:t></w:p></w:body>`))
	assert.Equal(t, "Title Body ", slideText(`<p:sp><a:t>Title</a:t></p:sp><a:t>Body</a:t>`))
}

func TestSplitterOverlapAndNumbering(t *testing.T) {
	s, err := NewSplitter(40, 10)
	require.NoError(t, err)

	long := strings.Repeat("pipelines ", 20)
	chunks, err := s.Split([]models.Page{
		{Source: "resume.pdf", PageNumber: 1, Text: long},
		{Source: "resume.pdf", PageNumber: 2, Text: "short page"},
	})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	var page1 []models.Chunk
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 40)
		if c.PageNumber == 1 {
			page1 = append(page1, c)
		}
	}
	for i, c := range page1 {
		assert.Equal(t, i+1, c.ChunkID)
		assert.Equal(t, "resume.pdf", c.SourceFilename)
	}

	last := chunks[len(chunks)-1]
	assert.Equal(t, 2, last.PageNumber)
	assert.Equal(t, 1, last.ChunkID)
	assert.Equal(t, "short page", last.Content)
}

func TestNewSplitterRejectsOverlap(t *testing.T) {
	_, err := NewSplitter(100, 100)
	assert.Error(t, err)

	s, err := NewSplitter(0, -1)
	require.NoError(t, err)
	assert.NotNil(t, s)
}
