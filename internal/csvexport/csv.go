package csvexport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultFilename    = "export.csv"
	DefaultContentType = "text/csv; charset=utf-8"
)

// RowSource calls yield once per row, in order, and stops at the first
// error yield returns.
type RowSource func(yield func(row []interface{}) error) error

// Renderer writes an optional templated header, the column titles and then
// one CSV record per row. Without Columns no title row is written and rows
// are written as they come.
type Renderer struct {
	Columns     []string
	Header      *template.Template
	Context     interface{}
	Filename    string
	ContentType string
	Rows        RowSource
	// OnError is told about failures that happen after a stream started.
	OnError func(error)
}

func (r *Renderer) filename() string {
	if r.Filename == "" {
		return DefaultFilename
	}
	return r.Filename
}

func (r *Renderer) contentType() string {
	if r.ContentType == "" {
		return DefaultContentType
	}
	return r.ContentType
}

func (r *Renderer) ContentDisposition() string {
	return fmt.Sprintf(`attachment; filename="%s"`, r.filename())
}

// Encode renders one value the way it appears in a cell.
func Encode(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) record(row []interface{}) []string {
	n := len(row)
	if len(r.Columns) > 0 {
		n = len(r.Columns)
	}
	record := make([]string, n)
	for i := 0; i < n && i < len(row); i++ {
		record[i] = Encode(row[i])
	}
	return record
}

func (r *Renderer) renderHeader() ([]byte, error) {
	if r.Header == nil {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	if err := r.Header.Execute(buf, r.Context); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writePreamble(out io.Writer, w *csv.Writer, header []byte) error {
	if len(header) > 0 {
		if _, err := out.Write(header); err != nil {
			return err
		}
	}
	if len(r.Columns) > 0 {
		if err := w.Write(r.Columns); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Render writes the whole document to out.
func (r *Renderer) Render(out io.Writer) error {
	header, err := r.renderHeader()
	if err != nil {
		return err
	}
	return r.render(out, header, nil)
}

func (r *Renderer) render(out io.Writer, header []byte, flush func() error) error {
	w := csv.NewWriter(out)
	if err := r.writePreamble(out, w, header); err != nil {
		return err
	}
	if flush != nil {
		if err := flush(); err != nil {
			return err
		}
	}
	if r.Rows == nil {
		return nil
	}
	return r.Rows(func(row []interface{}) error {
		if err := w.Write(r.record(row)); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		if flush != nil {
			return flush()
		}
		return nil
	})
}

func (r *Renderer) setHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentDisposition, r.ContentDisposition())
	c.Set(fiber.HeaderContentType, r.contentType())
}

// Send buffers the document and replies with it.
func (r *Renderer) Send(c *fiber.Ctx) error {
	buf := &bytes.Buffer{}
	if err := r.Render(buf); err != nil {
		return err
	}
	r.setHeaders(c)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// Stream replies with the header and title row as the first chunk and then
// flushes one chunk per row. The header template runs before the response
// starts so template errors still produce an error status.
func (r *Renderer) Stream(c *fiber.Ctx) error {
	header, err := r.renderHeader()
	if err != nil {
		return err
	}
	r.setHeaders(c)
	c.Status(fiber.StatusOK)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := r.streamTo(w, header); err != nil && r.OnError != nil {
			r.OnError(err)
		}
	})
	return nil
}

// streamTo flushes w once after the header and title row and once after
// every row.
func (r *Renderer) streamTo(w *bufio.Writer, header []byte) error {
	return r.render(w, header, w.Flush)
}
