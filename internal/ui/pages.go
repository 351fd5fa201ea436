// Package ui renders the relay's HTML lineage explorer.
package ui

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"laketrace/internal/domain"

	gomponents "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	html "maragu.dev/gomponents/html"
)

// LineagePageData feeds one render of the lineage explorer.
type LineagePageData struct {
	Table  string         // submitted table name, echoed into the form
	Error  string         // human-readable failure, empty on success
	Result *domain.Result // nil until a table has been queried
}

func appPage(title string, body ...gomponents.Node) gomponents.Node {
	return html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text(title+" | LakeTrace")),
			html.StyleEl(gomponents.Raw(appCSS)),
			html.Script(
				html.Type("module"),
				html.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"),
			),
		),
		html.Body(
			html.Main(
				html.Class("layout"),
				html.Div(
					html.Class("topbar"),
					html.Strong(gomponents.Text("LakeTrace")),
					html.P(html.Class("muted"), gomponents.Text("Databricks table lineage explorer")),
				),
				html.H1(html.Class("page-title"), gomponents.Text(title)),
				gomponents.Group(body),
			),
		),
	)
}

// LineagePage renders the search form and, when present, the lineage rows.
func LineagePage(d LineagePageData) gomponents.Node {
	body := []gomponents.Node{searchCard(d.Table)}

	if d.Error != "" {
		body = append(body, html.Div(html.Class("card error"), gomponents.Text(d.Error)))
	}
	if d.Result != nil {
		body = append(body, resultCard(d.Result))
	}

	return appPage("Table lineage", body...)
}

func searchCard(table string) gomponents.Node {
	return html.Div(
		html.Class("card"),
		html.Form(
			html.Method("get"),
			html.Action("/ui/lineage"),
			html.Label(gomponents.Text("Table")),
			html.Input(
				html.Type("text"),
				html.Name("table"),
				html.Value(table),
				html.Placeholder("catalog.schema.table"),
			),
			html.Button(html.Type("submit"), gomponents.Text("Show lineage")),
		),
	)
}

func resultCard(res *domain.Result) gomponents.Node {
	tableRows := make([]gomponents.Node, 0, len(res.Rows))
	for i := range res.Rows {
		row := res.Rows[i]
		tableRows = append(tableRows, html.Tr(
			data.Show(containsExpr(row.TableName)),
			html.Td(gomponents.Text(row.LineageDirection)),
			html.Td(gomponents.Text(row.CatalogName+"."+row.SchemaName+"."+row.TableName)),
			html.Td(gomponents.Text(row.Type)),
			html.Td(pipelineCell(row)),
			html.Td(notebookCell(row.NotebookLinks)),
		))
	}

	return html.Div(
		data.Signals(map[string]any{"q": ""}),
		html.Div(
			html.Class("card"),
			html.Label(gomponents.Text("Quick filter")),
			html.Input(html.Type("text"), data.Bind("q"), html.Placeholder("Filter by table name")),
		),
		html.Div(
			html.Class("card table-wrap"),
			html.H2(gomponents.Text("Lineage of "+res.FQN())),
			html.Table(
				html.THead(html.Tr(
					html.Th(gomponents.Text("Direction")),
					html.Th(gomponents.Text("Table")),
					html.Th(gomponents.Text("Type")),
					html.Th(gomponents.Text("Latest pipeline run")),
					html.Th(gomponents.Text("Notebooks")),
				)),
				html.TBody(gomponents.Group(tableRows)),
			),
		),
	)
}

func pipelineCell(row domain.Row) gomponents.Node {
	if row.LatestPipelineLineageTimestamp == nil {
		return gomponents.Text("—")
	}
	label := row.LatestPipelineLineageTimestamp.Format(time.DateTime)
	if row.PipelineLink != nil {
		return html.A(html.Href(*row.PipelineLink), gomponents.Text(label))
	}
	return gomponents.Text(label)
}

// notebookCell renders the notebook_links column, which holds either the
// string "null" or a JSON array of editor URLs.
func notebookCell(links string) gomponents.Node {
	if links == "" || links == "null" {
		return gomponents.Text("—")
	}
	var urls []string
	if err := json.Unmarshal([]byte(links), &urls); err != nil {
		return gomponents.Text(links)
	}
	anchors := make([]gomponents.Node, 0, len(urls)*2)
	for i, u := range urls {
		if i > 0 {
			anchors = append(anchors, html.Br())
		}
		anchors = append(anchors, html.A(html.Href(u), gomponents.Text("notebook "+strconv.Itoa(i+1))))
	}
	return gomponents.Group(anchors)
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

const appCSS = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; color: #1c2733; }
.layout { max-width: 1100px; margin: 0 auto; padding: 1.5rem; }
.topbar { display: flex; align-items: baseline; gap: 1rem; }
.muted { color: #5c6b7a; }
.page-title { margin: 1rem 0; }
.card { background: #fff; border: 1px solid #dde3ea; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
.card.error { border-color: #c0392b; color: #c0392b; }
.table-wrap { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e8edf2; }
label { display: block; margin-bottom: 0.3rem; font-weight: 600; }
input[type=text] { width: 100%; max-width: 28rem; padding: 0.4rem; }
button { margin-top: 0.6rem; padding: 0.4rem 1rem; }
`
