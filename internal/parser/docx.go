package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dgallion1/faqbot/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Each body paragraph carries its style name
// from word/styles.xml ("heading 1"), or the raw style id when the name is
// unknown, so headings can be detected downstream. Localized Word writes ids
// such as "Ttulo1" for the built-in "heading 1".
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReaderAt+size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	names, err := docxStyleNames(data)
	if err != nil {
		return nil, err
	}

	doc := &doctree.Document{
		Title: titleFromFilename(filename, ".docx"),
	}
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		doc.Paragraphs = append(doc.Paragraphs, doctree.Paragraph{
			Text:  docxParagraphText(para),
			Style: docxParagraphStyle(para, names),
		})
	}

	return doc, nil
}

func docxParagraphStyle(para *docx.Paragraph, names map[string]string) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	id := para.Properties.Style.Val
	if name := names[id]; name != "" {
		return name
	}
	return id
}

const docxStylesPart = "word/styles.xml"

type docxStyles struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// docxStyleNames maps style ids to style names. A package without a styles
// part yields an empty map.
func docxStyleNames(data []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	f, err := zr.Open(docxStylesPart)
	if err != nil {
		return map[string]string{}, nil
	}
	defer f.Close()

	var styles docxStyles
	if err := xml.NewDecoder(f).Decode(&styles); err != nil {
		return nil, fmt.Errorf("read %s: %w", docxStylesPart, err)
	}
	names := make(map[string]string, len(styles.Styles))
	for _, st := range styles.Styles {
		if st.ID != "" && st.Name.Val != "" {
			names[st.ID] = st.Name.Val
		}
	}
	return names, nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf bytes.Buffer
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}
