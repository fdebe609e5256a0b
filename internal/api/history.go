package api

import (
	"io"
	"strings"

	"github.com/existflow/onescan/internal/model"
	"golang.org/x/net/html"
)

// The record page carries two tables: GridViewRec holds today's rows,
// MonthlyRecordRec the monthly history. Each data row is course name,
// section, time. The "no records today" placeholder row has a single
// spanning cell and is dropped by the cell-count check.
const (
	todayTableID   = "GridViewRec"
	monthlyTableID = "MonthlyRecordRec"
)

// ParseHistoryHTML scrapes check-in records out of the record page document.
func ParseHistoryHTML(r io.Reader) ([]model.CheckinRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var records []model.CheckinRecord
	if table := findByID(doc, todayTableID); table != nil {
		records = append(records, tableRecords(table, true)...)
	}
	if table := findByID(doc, monthlyTableID); table != nil {
		records = append(records, tableRecords(table, false)...)
	}
	return records, nil
}

func tableRecords(table *html.Node, isToday bool) []model.CheckinRecord {
	var records []model.CheckinRecord
	rows := findAll(table, "tr")
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		cells := findAll(row, "td")
		if len(cells) < 3 {
			continue
		}
		name := text(cells[0])
		if name == "" {
			continue
		}
		records = append(records, model.CheckinRecord{
			CourseName: name,
			Section:    text(cells[1]),
			Time:       text(cells[2]),
			IsToday:    isToday,
		})
	}
	return records
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		out = append(out, findAll(c, tag)...)
	}
	return out
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
