package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxMainPart = "word/document.xml"

const docxContentTypes = "[Content_Types].xml"

const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

var (
	// Text runs: <w:t>text</w:t>, with or without attributes.
	docxTextRun = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	// Paragraph close tags delimit lines in the output.
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	// Explicit line breaks inside a paragraph.
	docxLineBreak = regexp.MustCompile(`<w:br\s*/?>`)

	// The main part can live at a non-default path; [Content_Types].xml
	// names it with either attribute order.
	docxOverrideA = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	docxOverrideB = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// extractDOCX reads the OOXML main document and reassembles its text.
// Paragraphs become lines: resumes carry their structure in paragraph
// breaks ("Experience", "Education" headings), and the section scanner
// needs headings on lines of their own.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: not a zip archive: %w", err)
	}

	docPath := mainDocumentPath(zr)
	docXML, err := readZipFile(zr, docPath)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var out strings.Builder
	for i, para := range docxParagraphEnd.Split(string(docXML), -1) {
		para = docxLineBreak.ReplaceAllString(para, "\n")
		runs := docxTextRun.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		if i > 0 && out.Len() > 0 {
			out.WriteByte('\n')
		}
		for _, run := range runs {
			out.WriteString(run[1])
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// mainDocumentPath resolves the main part path from the package
// manifest, falling back to the conventional location.
func mainDocumentPath(zr *zip.Reader) string {
	manifest, err := readZipFile(zr, docxContentTypes)
	if err != nil {
		return docxMainPart
	}
	for _, re := range []*regexp.Regexp{docxOverrideA, docxOverrideB} {
		if m := re.FindSubmatch(manifest); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return docxMainPart
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
