package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/veridata/veridata-engine/pkg/models"
)

// DecodeXLSX parses the first worksheet of an XLSX workbook. The first row
// is the header. Only the subset of the OOXML format needed for flat tables
// is handled: shared strings, inline strings, and plain cell values.
func DecodeXLSX(data []byte) ([]models.Row, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	sheetPath := firstSheetPath(zr)
	sheetXML := readZipFile(zr, sheetPath)
	if sheetXML == nil {
		return nil, fmt.Errorf("xlsx worksheet %q not found", sheetPath)
	}
	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))

	reader := newSheetRowReader(sheetXML, shared)
	header, ok := reader.Next()
	if !ok || len(header) == 0 {
		return []models.Row{}, nil
	}

	var records [][]string
	for {
		record, ok := reader.Next()
		if !ok {
			break
		}
		records = append(records, record)
	}
	return rowsFromRecords(header, records), nil
}

// firstSheetPath resolves the workbook's first sheet to its zip entry,
// falling back to the conventional sheet1.xml path.
func firstSheetPath(zr *zip.Reader) string {
	sheets := parseWorkbookSheets(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))

	if len(sheets) > 0 {
		if target, ok := rels[sheets[0].rid]; ok {
			target = strings.TrimPrefix(target, "/")
			if !strings.HasPrefix(target, "xl/") {
				target = path.Join("xl", target)
			}
			return target
		}
	}
	return "xl/worksheets/sheet1.xml"
}

type workbookSheet struct {
	name string
	rid  string
}

func parseWorkbookSheets(data []byte) []workbookSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []workbookSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s workbookSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "id":
				s.rid = a.Value
			}
		}
		sheets = append(sheets, s)
	}
	return sheets
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
	return out
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inText = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write([]byte(se))
			}
		}
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sheetRowReader streams <row> elements from a worksheet, resolving shared
// string references and cell positions from A1-style references.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRowReader) Next() ([]string, bool) {
	var row []string
	inRow := false
	width := 0
	cellIdx := 0
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				inRow = true
				row = nil
				width = 0
				cellIdx = 0
			case "c":
				if !inRow {
					continue
				}
				var ref, cellType string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						cellType = a.Value
					}
				}
				idx := cellIdx
				if ref != "" {
					idx = colIndexFromRef(ref)
				}
				cellIdx = idx + 1
				if idx+1 > width {
					width = idx + 1
				}
				if len(row) <= idx {
					grown := make([]string, idx+1)
					copy(grown, row)
					row = grown
				}
				row[idx] = r.readCellValue(cellType)
			}
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				if len(row) < width {
					grown := make([]string, width)
					copy(grown, row)
					row = grown
				}
				return row, true
			}
		}
	}
}

func (r *sheetRowReader) readCellValue(cellType string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					inner, err := r.dec.Token()
					if err != nil {
						break
					}
					if end, ok := inner.(xml.EndElement); ok && (end.Name.Local == "v" || end.Name.Local == "t") {
						break
					}
					if ch, ok := inner.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if cellType == "s" {
					idx := 0
					for i := 0; i < len(val); i++ {
						c := val[i]
						if c < '0' || c > '9' {
							break
						}
						idx = idx*10 + int(c-'0')
					}
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// colIndexFromRef converts a cell reference like "C12" to its 0-based
// column index.
func colIndexFromRef(ref string) int {
	end := 0
	for end < len(ref) {
		c := ref[end]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			end++
			continue
		}
		break
	}
	idx := 0
	for _, c := range strings.ToUpper(ref[:end]) {
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}
