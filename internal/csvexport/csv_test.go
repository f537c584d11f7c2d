package csvexport

import (
	"bufio"
	"bytes"
	"errors"
	"io/ioutil"
	"net/http/httptest"
	"testing"
	"text/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(data ...[]interface{}) RowSource {
	return func(yield func([]interface{}) error) error {
		for _, row := range data {
			if err := yield(row); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestRenderDictMode(t *testing.T) {
	header := template.Must(template.New("h").Parse("Usage Report For Period:,{{.Start}},{{.End}}\n"))
	r := &Renderer{
		Columns: []string{"Name", "VCPUs", "RAM (MB)"},
		Header:  header,
		Context: map[string]string{"Start": "2021-03-01", "End": "2021-03-02"},
		Rows: rows(
			[]interface{}{"web, primary", 2.0, 2048},
			[]interface{}{"db", 4.5},
			[]interface{}{"cache", 1, 512, "extra"},
		),
	}

	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf))

	assert.Equal(t, "Usage Report For Period:,2021-03-01,2021-03-02\n"+
		"Name,VCPUs,RAM (MB)\n"+
		"\"web, primary\",2,2048\n"+
		"db,4.5,\n"+
		"cache,1,512\n", buf.String())
}

func TestRenderPlainMode(t *testing.T) {
	r := &Renderer{Rows: rows(
		[]interface{}{"a", nil, time.Date(2021, 3, 1, 1, 2, 3, 0, time.UTC)},
		[]interface{}{"b"},
	)}

	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf))

	assert.Equal(t, "a,,2021-03-01T01:02:03Z\nb\n", buf.String())
}

func TestRenderStopsOnRowError(t *testing.T) {
	boom := errors.New("boom")
	r := &Renderer{
		Columns: []string{"a"},
		Rows: func(yield func([]interface{}) error) error {
			if err := yield([]interface{}{1}); err != nil {
				return err
			}
			return boom
		},
	}

	buf := &bytes.Buffer{}
	assert.Equal(t, boom, r.Render(buf))
	assert.Equal(t, "a\n1\n", buf.String())
}

func TestRenderHeaderTemplateError(t *testing.T) {
	header := template.Must(template.New("h").Parse("{{.Missing.Field}}"))
	r := &Renderer{Header: header, Context: struct{ Missing *struct{ Field string } }{}}

	assert.Error(t, r.Render(&bytes.Buffer{}))
}

func TestSendAndStream(t *testing.T) {
	newRenderer := func() *Renderer {
		return &Renderer{
			Columns:  []string{"Name", "Hours"},
			Filename: "usage.csv",
			Rows:     rows([]interface{}{"a", 1.5}, []interface{}{"b", 2}),
		}
	}

	app := fiber.New()
	app.Get("/buffered", func(c *fiber.Ctx) error {
		return newRenderer().Send(c)
	})
	app.Get("/streamed", func(c *fiber.Ctx) error {
		return newRenderer().Stream(c)
	})
	app.Get("/default", func(c *fiber.Ctx) error {
		return (&Renderer{}).Send(c)
	})

	for _, path := range []string{"/buffered", "/streamed"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err, path)

		body, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err, path)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Equal(t, `attachment; filename="usage.csv"`, resp.Header.Get(fiber.HeaderContentDisposition), path)
		assert.Equal(t, DefaultContentType, resp.Header.Get(fiber.HeaderContentType), path)
		assert.Equal(t, "Name,Hours\na,1.5\nb,2\n", string(body), path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/default", nil))
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="export.csv"`, resp.Header.Get(fiber.HeaderContentDisposition))
}

type chunkRecorder struct {
	chunks []string
}

func (r *chunkRecorder) Write(p []byte) (int, error) {
	r.chunks = append(r.chunks, string(p))
	return len(p), nil
}

func TestStreamFlushesPreambleThenEachRow(t *testing.T) {
	rec := &chunkRecorder{}
	// number of chunks already sent each time a row is produced
	var sent []int
	r := &Renderer{
		Columns: []string{"Name", "Hours"},
		Header:  template.Must(template.New("h").Parse("Usage Report For Period:,{{.}}\n")),
		Context: "2021-03-01",
		Rows: func(yield func([]interface{}) error) error {
			for _, row := range [][]interface{}{{"a", 1.5}, {"b", 2}} {
				sent = append(sent, len(rec.chunks))
				if err := yield(row); err != nil {
					return err
				}
			}
			return nil
		},
	}

	header, err := r.renderHeader()
	require.NoError(t, err)
	require.NoError(t, r.streamTo(bufio.NewWriter(rec), header))

	assert.Equal(t, []int{1, 2}, sent)
	assert.Equal(t, []string{
		"Usage Report For Period:,2021-03-01\nName,Hours\n",
		"a,1.5\n",
		"b,2\n",
	}, rec.chunks)
}

func TestStreamReportsRowErrors(t *testing.T) {
	boom := errors.New("boom")
	var reported error
	r := &Renderer{
		Columns: []string{"a"},
		Rows: func(yield func([]interface{}) error) error {
			return boom
		},
		OnError: func(err error) { reported = err },
	}

	app := fiber.New()
	app.Get("/", r.Stream)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "a\n", string(body))
	assert.Equal(t, boom, reported)
}
