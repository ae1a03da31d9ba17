package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"jagriti-backend/lib/textutil"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText returns the cleaned, printable text contents of a selection.
func CellText(sel *goquery.Selection) string {
	return textutil.Clean(removeNonPrintable(sel.Text()))
}

type Option struct {
	Value string
	Label string
}

// placeholder values the portal uses for "please select" entries
var placeholderValues = map[string]bool{
	"":       true,
	"-1":     true,
	"0":      true,
	"select": true,
}

// SelectOptions extracts the non-placeholder options of a <select>.
func SelectOptions(sel *goquery.Selection) []Option {
	var options []Option
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		label := CellText(opt)
		if placeholderValues[strings.ToLower(value)] || label == "" {
			return
		}
		options = append(options, Option{Value: value, Label: label})
	})
	return options
}

// TableRows returns the cell selections of every body row of a table
// that has at least minCells cells. Header rows (th-only) are skipped.
func TableRows(table *goquery.Selection, minCells int) [][]*goquery.Selection {
	var rows [][]*goquery.Selection
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < minCells {
			return
		}
		var row []*goquery.Selection
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, td)
		})
		rows = append(rows, row)
	})
	return rows
}

// FirstAnchorHref returns the href of the first anchor inside a
// selection, or "" when there is none.
func FirstAnchorHref(sel *goquery.Selection) string {
	return sel.Find("a").First().AttrOr("href", "")
}
