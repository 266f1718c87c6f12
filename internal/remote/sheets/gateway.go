// Package sheets implements remote.Gateway on Google Sheets. A container is
// a spreadsheet located through Drive by title; tables are its sheets.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/logger"
	"github.com/alexanderramin/tally/internal/remote"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

type Gateway struct {
	sheets *gsheets.Service
	drive  *drive.Service
	log    *logger.Logger
}

// New dials both services with the same client options.
func New(ctx context.Context, log *logger.Logger, opts ...option.ClientOption) (*Gateway, error) {
	if log == nil {
		log = logger.Nop()
	}
	ss, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w: %w", domain.ErrGateway, err)
	}
	ds, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w: %w", domain.ErrGateway, err)
	}
	return &Gateway{sheets: ss, drive: ds, log: log.With("component", "sheets")}, nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("sheets %s: %w: %w", op, domain.ErrGateway, err)
}

func (g *Gateway) FindContainer(ctx context.Context, name string) (string, bool, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)
	list, err := g.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return "", false, wrap("find "+name, err)
	}
	if len(list.Files) == 0 {
		return "", false, nil
	}
	if len(list.Files) > 1 {
		g.log.Warn("duplicate containers, using first", "name", name, "count", len(list.Files))
	}
	return list.Files[0].Id, true, nil
}

func (g *Gateway) CreateContainer(ctx context.Context, name string, tables []string) (string, error) {
	ss := &gsheets.Spreadsheet{
		Properties: &gsheets.SpreadsheetProperties{Title: name},
	}
	for _, t := range tables {
		ss.Sheets = append(ss.Sheets, &gsheets.Sheet{
			Properties: &gsheets.SheetProperties{Title: t},
		})
	}
	created, err := g.sheets.Spreadsheets.Create(ss).Context(ctx).Do()
	if err != nil {
		return "", wrap("create "+name, err)
	}
	g.log.Info("created container", "name", name, "id", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}

func (g *Gateway) ListTables(ctx context.Context, containerID string) ([]string, error) {
	ss, err := g.sheets.Spreadsheets.Get(containerID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrap("list tables", err)
	}
	names := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}

func (g *Gateway) CreateTable(ctx context.Context, containerID, table string) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := g.sheets.Spreadsheets.BatchUpdate(containerID, req).Context(ctx).Do(); err != nil {
		return wrap("add sheet "+table, err)
	}
	return nil
}

func (g *Gateway) ReadRange(ctx context.Context, containerID, rng string) ([][]string, error) {
	vr, err := g.sheets.Spreadsheets.Values.Get(containerID, rng).Context(ctx).Do()
	if err != nil {
		return nil, wrap("read "+rng, err)
	}
	rows := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		row := make([]string, len(r))
		for j, cell := range r {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// WriteRange stores cells as RAW text so numeric strings and JSON literals
// are not reinterpreted by the spreadsheet.
func (g *Gateway) WriteRange(ctx context.Context, containerID, rng string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		row := make([]interface{}, len(r))
		for j, cell := range r {
			row[j] = cell
		}
		values[i] = row
	}
	_, err := g.sheets.Spreadsheets.Values.Update(containerID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return wrap("write "+rng, err)
	}
	return nil
}

func (g *Gateway) ClearRange(ctx context.Context, containerID, rng string) error {
	_, err := g.sheets.Spreadsheets.Values.Clear(containerID, rng, &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return wrap("clear "+rng, err)
	}
	return nil
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

var _ remote.Gateway = (*Gateway)(nil)
