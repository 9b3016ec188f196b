// Package htmltable extracts cell text from HTML tables.
package htmltable

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"fundTools/internal/ports"
)

// ReadFirstTableFile parses the file at path. See ReadFirstTable.
func ReadFirstTableFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadFirstTable(f)
}

// ReadFirstTable returns every row of the document's first <table>, in document
// order, as the text of its <th>/<td> cells. Rows and cells of nested tables are
// included. No rows are dropped.
func ReadFirstTable(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ports.ErrNoTable
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			row = append(row, cellText(cell.Get(0)))
		})
		rows = append(rows, row)
	})
	return rows, nil
}

// cellText joins the node's text descendants, each trimmed, skipping empty ones.
func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
